package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"secondhand/internal/domain/entity"
	"secondhand/internal/state/unread"
	"secondhand/internal/usecase"
)

var statusLabels = map[entity.ProductStatus]string{
	entity.StatusOnSale:   "판매중",
	entity.StatusReserved: "예약중",
	entity.StatusSoldOut:  "판매완료",
}

func heading(title string, fallback bool) string {
	if fallback {
		return "== " + title + " (offline) =="
	}
	return "== " + title + " =="
}

func heart(on bool) string {
	if on {
		return "♥"
	}
	return "♡"
}

// won formats a price with thousands separators, e.g. 18,000원.
func won(price int64) string {
	s := strconv.FormatInt(price, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + "원"
}

func printProducts(w io.Writer, items []entity.Product) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (상품 없음)")
		return
	}
	for _, p := range items {
		fmt.Fprintf(w, "  %-4s %s  %s  [%s]  %s %d  %s\n",
			p.ID, p.Title, won(p.Price), statusLabels[p.Status], heart(p.IsWishlisted), p.LikeCount, p.SellerNickname)
	}
}

func printProfile(w io.Writer, view usecase.ProfileView) {
	title := fmt.Sprintf("내 상품 %d", view.MineCount)
	if view.Tab == usecase.TabWishlist {
		title = fmt.Sprintf("찜 %d", view.WishlistCount)
	}
	fmt.Fprintln(w, heading(title+" · "+statusLabels[view.Status], view.UsedFallback))
	printProducts(w, view.Items)
}

func printDetail(w io.Writer, view usecase.DetailView) {
	p, seller := view.Detail.Product, view.Detail.Seller
	fmt.Fprintln(w, heading(p.Title, view.UsedFallback))
	fmt.Fprintf(w, "  %s  [%s]  %s\n", won(p.Price), statusLabels[p.Status], p.Category)
	fmt.Fprintf(w, "  판매자 %s  매너온도 %.1f℃ (%s)\n", seller.Nickname, seller.MannerTemperature, seller.MannerLevel())
	fmt.Fprintf(w, "  %s %d\n", heart(p.IsWishlisted), p.LikeCount)
	if p.Description != "" {
		fmt.Fprintf(w, "\n  %s\n", p.Description)
	}
	for _, url := range p.ImageURLs {
		fmt.Fprintf(w, "  - %s\n", url)
	}
}

func printChats(w io.Writer, chats []entity.ChatSummary) {
	if len(chats) == 0 {
		fmt.Fprintln(w, "  (대화 없음)")
		return
	}
	for _, c := range chats {
		marker := "*"
		if c.IsRead() {
			marker = " "
		}
		when := ""
		if c.LastMessageAt != nil {
			when = c.LastMessageAt.Local().Format("01-02 15:04")
		}
		fmt.Fprintf(w, "%s %-6s %s  %s  %s", marker, c.ID, c.PeerNickname, c.LastMessage, when)
		if label, ok := unread.BadgeLabel(c.UnreadCount); ok {
			fmt.Fprintf(w, "  (%s)", label)
		}
		fmt.Fprintln(w)
	}
}

func printTimeline(w io.Writer, entries []usecase.TimelineEntry) {
	for _, e := range entries {
		if e.Divider != "" {
			fmt.Fprintf(w, "  --- %s ---\n", e.Divider)
			continue
		}
		m := e.Message
		who := "상대"
		if m.IsMine() {
			who = "나"
		}
		status := ""
		if m.SendStatus != entity.SendSent {
			status = " (" + string(m.SendStatus) + ")"
		}
		fmt.Fprintf(w, "  %s %s: %s%s\n", m.CreatedAt.Local().Format("15:04"), who, m.Content(), status)
	}
}
