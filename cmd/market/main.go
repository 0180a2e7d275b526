// Command market renders the marketplace pages in the terminal through the
// client core, against the backend at API_BASE_URL with mock fallback.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"secondhand/internal/app"
	"secondhand/internal/usecase"
	"secondhand/pkg/config"
	"secondhand/pkg/logger"
)

func main() {
	var session *app.App

	cliApp := &cli.App{
		Name:  "market",
		Usage: "browse the secondhand marketplace from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "backend base URL (overrides API_BASE_URL)"},
			&cli.StringFlag{Name: "user", Usage: "viewer user id (overrides MARKET_USER_ID)"},
			&cli.BoolFlag{Name: "debug", Usage: "log every request"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if v := c.String("base-url"); v != "" {
				cfg.BaseURL = v
			}
			if v := c.String("user"); v != "" {
				cfg.UserID = v
			}
			logger.SetDebug(c.Bool("debug"))

			session, err = app.New(cfg)
			return err
		},
		After: func(c *cli.Context) error {
			if session != nil {
				session.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "home",
				Usage: "recommended products and your liked list",
				Action: func(c *cli.Context) error {
					view := session.Home.Load(c.Context)
					out := c.App.Writer
					fmt.Fprintln(out, heading("추천 상품", view.RecommendedFallback))
					printProducts(out, view.Recommended)
					fmt.Fprintln(out, heading("찜한 상품", view.LikedFallback))
					printProducts(out, view.Liked)
					return nil
				},
			},
			{
				Name:      "category",
				Usage:     "list a category",
				ArgsUsage: "<code|label>",
				Flags:     []cli.Flag{sortFlag()},
				Action: func(c *cli.Context) error {
					mode, err := sortMode(c)
					if err != nil {
						return err
					}
					session.Category.Load(c.Context, c.Args().First())
					view := session.Category.SetSort(mode)
					fmt.Fprintln(c.App.Writer, heading(view.Category.Label, view.UsedFallback))
					printProducts(c.App.Writer, view.Items)
					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "search products by keyword",
				ArgsUsage: "<keyword>",
				Flags:     []cli.Flag{sortFlag()},
				Action: func(c *cli.Context) error {
					mode, err := sortMode(c)
					if err != nil {
						return err
					}
					session.Search.Search(c.Context, c.Args().First())
					view := session.Search.SetSort(mode)
					fmt.Fprintln(c.App.Writer, heading("검색: "+view.Keyword, view.UsedFallback))
					printProducts(c.App.Writer, view.Items)
					return nil
				},
			},
			{
				Name:      "product",
				Usage:     "show one product",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					view, err := session.Detail.Load(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					printDetail(c.App.Writer, view)
					return nil
				},
			},
			{
				Name:      "like",
				Usage:     "toggle the like on a product",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if _, err := session.Detail.Load(c.Context, c.Args().First()); err != nil {
						return err
					}
					if err := session.Detail.ToggleWish(c.Context); err != nil {
						return err
					}
					detail, _ := session.Detail.Current()
					fmt.Fprintf(c.App.Writer, "%s %s (%d)\n", heart(detail.Product.IsWishlisted), detail.Product.Title, detail.Product.LikeCount)
					return nil
				},
			},
			{
				Name:      "chat",
				Usage:     "start a chat with the seller of a product",
				ArgsUsage: "<productId>",
				Action: func(c *cli.Context) error {
					if _, err := session.Detail.Load(c.Context, c.Args().First()); err != nil {
						return err
					}
					roomID, err := session.Detail.StartChat(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, roomID)
					return nil
				},
			},
			{
				Name:  "chats",
				Usage: "list your chat rooms",
				Action: func(c *cli.Context) error {
					view := session.ChatList.Load(c.Context)
					label, shown := session.Badge.Label()
					title := "채팅"
					if shown {
						title += " [" + label + "]"
					}
					fmt.Fprintln(c.App.Writer, heading(title, view.UsedFallback))
					printChats(c.App.Writer, view.Chats)
					return nil
				},
			},
			{
				Name:      "room",
				Usage:     "show a conversation",
				ArgsUsage: "<roomId>",
				Action: func(c *cli.Context) error {
					view := session.ChatRoom.Load(c.Context, c.Args().First())
					fmt.Fprintln(c.App.Writer, heading("채팅방 "+view.RoomID, view.UsedFallback))
					printTimeline(c.App.Writer, session.ChatRoom.Timeline(time.Local))
					return nil
				},
			},
			{
				Name:  "profile",
				Usage: "your listings or your wishlist, one status at a time",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tab", Value: string(usecase.TabMine), Usage: "my or wish"},
					&cli.StringFlag{Name: "status", Value: "판매중", Usage: "판매중, 예약중 or 판매완료"},
					&cli.StringFlag{Name: "like", Usage: "toggle the like on this product id first"},
				},
				Action: func(c *cli.Context) error {
					tab, ok := usecase.ParseProfileTab(c.String("tab"))
					if !ok {
						return cli.Exit("unknown tab "+c.String("tab"), 2)
					}
					status, err := usecase.ParseStatusFilter(c.String("status"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					session.Profile.Load(c.Context)
					session.Profile.SetTab(tab)
					view := session.Profile.SetStatus(status)
					if id := c.String("like"); id != "" {
						if err := session.Profile.ToggleLike(c.Context, id); err != nil {
							return err
						}
						view = session.Profile.View()
					}
					printProfile(c.App.Writer, view)
					return nil
				},
			},
			{
				Name:      "send",
				Usage:     "send a text message",
				ArgsUsage: "<roomId> <text>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return cli.Exit("usage: market send <roomId> <text>", 2)
					}
					session.ChatRoom.Load(c.Context, c.Args().Get(0))
					msg, err := session.ChatRoom.SendText(c.Context, c.Args().Get(1))
					fmt.Fprintf(c.App.Writer, "%s %s\n", msg.SendStatus, msg.Text)
					return err
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func sortFlag() cli.Flag {
	return &cli.StringFlag{Name: "sort", Value: string(usecase.SortPopular), Usage: "popular, latest or available"}
}

func sortMode(c *cli.Context) (usecase.SortMode, error) {
	mode, ok := usecase.ParseSortMode(c.String("sort"))
	if !ok {
		return "", cli.Exit("unknown sort mode "+c.String("sort"), 2)
	}
	return mode, nil
}
