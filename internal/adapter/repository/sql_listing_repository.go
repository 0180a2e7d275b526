package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"secondhand/internal/domain/entity"
	"secondhand/internal/domain/repository"
	"secondhand/pkg/errors"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type listingRow struct {
	ID             string `db:"id"`
	Seq            int64  `db:"seq"`
	Title          string `db:"title"`
	Description    string `db:"description"`
	Price          int64  `db:"price"`
	CategoryID     int    `db:"category_id"`
	CategoryName   string `db:"category_name"`
	SellerID       string `db:"seller_id"`
	SellerNickname string `db:"seller_nickname"`
	ImageURLs      string `db:"image_urls"`
	Status         string `db:"status"`
	LikeCount      int    `db:"like_count"`
	CreatedAt      int64  `db:"created_at"`
	UpdatedAt      int64  `db:"updated_at"`
}

const listingColumns = `id, seq, title, description, price, category_id, category_name,
	seller_id, seller_nickname, image_urls, status, like_count, created_at, updated_at`

type sqlListingRepository struct {
	db *sqlx.DB
}

func NewSQLListingRepository(db *sqlx.DB) repository.ListingRepository {
	return &sqlListingRepository{db: db}
}

// Create assigns the next numeric id when listing.ID is empty.
func (r *sqlListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}
	defer tx.Rollback()

	id := listing.ID
	if id == "" {
		var next int64
		if _, err := tx.ExecContext(ctx, `UPDATE counters SET value = value + 1 WHERE name = 'listings'`); err != nil {
			return errors.Internal("Failed to create product", err)
		}
		if err := tx.GetContext(ctx, &next, `SELECT value FROM counters WHERE name = 'listings'`); err != nil {
			return errors.Internal("Failed to create product", err)
		}
		id = strconv.FormatInt(next, 10)
	} else {
		found, err := exists(ctx, tx, tx.Rebind(`SELECT 1 FROM listings WHERE id = ?`), id)
		if err != nil {
			return errors.Internal("Failed to create product", err)
		}
		if found {
			return errors.Conflict("listing " + id + " already exists")
		}
		if seq := numericID(id); seq > 0 {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE counters SET value = ? WHERE name = 'listings' AND value < ?`), seq, seq); err != nil {
				return errors.Internal("Failed to create product", err)
			}
		}
	}

	row, err := toListingRow(listing)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}
	row.ID = id
	row.Seq = int64(numericID(id))

	_, err = tx.NamedExecContext(ctx, `INSERT INTO listings (`+listingColumns+`) VALUES (
		:id, :seq, :title, :description, :price, :category_id, :category_name,
		:seller_id, :seller_nickname, :image_urls, :status, :like_count, :created_at, :updated_at)`, row)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}
	if err := tx.Commit(); err != nil {
		return errors.Internal("Failed to create product", err)
	}

	listing.ID = id
	return nil
}

func (r *sqlListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var row listingRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+listingColumns+` FROM listings WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Product", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get product", err)
	}
	return row.toEntity()
}

// List returns matches newest first. A non-positive limit returns everything.
func (r *sqlListingRepository) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	where := squirrel.And{}
	if filter.CategoryID != 0 {
		where = append(where, squirrel.Eq{"category_id": filter.CategoryID})
	}
	if filter.SellerID != "" {
		where = append(where, squirrel.Eq{"seller_id": filter.SellerID})
	}
	if keyword := strings.ToLower(strings.TrimSpace(filter.Keyword)); keyword != "" {
		pattern := "%" + keyword + "%"
		where = append(where, squirrel.Or{
			squirrel.Like{"LOWER(title)": pattern},
			squirrel.Like{"LOWER(description)": pattern},
		})
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(r.placeholder())

	countSQL, countArgs, err := builder.Select("COUNT(*)").From("listings").Where(where).ToSql()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}
	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}

	if offset < 0 {
		offset = 0
	}
	query := builder.Select(listingColumns).From("listings").Where(where).OrderBy("seq DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit)).Offset(uint64(offset))
	}
	selectSQL, args, err := query.ToSql()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}

	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, selectSQL, args...); err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}
	if limit <= 0 {
		if offset > len(rows) {
			offset = len(rows)
		}
		rows = rows[offset:]
	}

	out := make([]*entity.Listing, 0, len(rows))
	for _, row := range rows {
		l, err := row.toEntity()
		if err != nil {
			return nil, 0, errors.Internal("Failed to list products", err)
		}
		out = append(out, l)
	}
	return out, total, nil
}

func (r *sqlListingRepository) placeholder() squirrel.PlaceholderFormat {
	if r.db.DriverName() == "postgres" {
		return squirrel.Dollar
	}
	return squirrel.Question
}

func (r *sqlListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	row, err := toListingRow(listing)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}
	res, err := r.db.NamedExecContext(ctx, `UPDATE listings SET
		title = :title, description = :description, price = :price,
		category_id = :category_id, category_name = :category_name,
		seller_id = :seller_id, seller_nickname = :seller_nickname,
		image_urls = :image_urls, status = :status,
		created_at = :created_at, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}
	if ok, err := affected(res); err != nil {
		return errors.Internal("Failed to update product", err)
	} else if !ok {
		return errors.NotFound("Product", nil)
	}
	return nil
}

func (r *sqlListingRepository) AdjustLikeCount(ctx context.Context, id string, delta int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Internal("Failed to update like count", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE listings
		SET like_count = CASE WHEN like_count + ? < 0 THEN 0 ELSE like_count + ? END
		WHERE id = ?`), delta, delta, id)
	if err != nil {
		return 0, errors.Internal("Failed to update like count", err)
	}
	if ok, err := affected(res); err != nil {
		return 0, errors.Internal("Failed to update like count", err)
	} else if !ok {
		return 0, errors.NotFound("Product", nil)
	}

	var count int
	if err := tx.GetContext(ctx, &count, tx.Rebind(`SELECT like_count FROM listings WHERE id = ?`), id); err != nil {
		return 0, errors.Internal("Failed to update like count", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Internal("Failed to update like count", err)
	}
	return count, nil
}

func (r *sqlListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM listings WHERE id = ?`), id)
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}
	if ok, err := affected(res); err != nil {
		return errors.Internal("Failed to delete product", err)
	} else if !ok {
		return errors.NotFound("Product", nil)
	}
	return nil
}

func toListingRow(l *entity.Listing) (listingRow, error) {
	images := l.ImageURLs
	if images == nil {
		images = []string{}
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return listingRow{}, err
	}
	return listingRow{
		ID:             l.ID,
		Seq:            int64(numericID(l.ID)),
		Title:          l.Title,
		Description:    l.Description,
		Price:          l.Price,
		CategoryID:     l.CategoryID,
		CategoryName:   l.CategoryName,
		SellerID:       l.SellerID,
		SellerNickname: l.SellerNickname,
		ImageURLs:      string(encoded),
		Status:         l.Status,
		LikeCount:      l.LikeCount,
		CreatedAt:      toNanos(l.CreatedAt),
		UpdatedAt:      toNanos(l.UpdatedAt),
	}, nil
}

func (row listingRow) toEntity() (*entity.Listing, error) {
	var images []string
	if err := json.Unmarshal([]byte(row.ImageURLs), &images); err != nil {
		return nil, err
	}
	return &entity.Listing{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		Price:          row.Price,
		CategoryID:     row.CategoryID,
		CategoryName:   row.CategoryName,
		SellerID:       row.SellerID,
		SellerNickname: row.SellerNickname,
		ImageURLs:      images,
		Status:         row.Status,
		LikeCount:      row.LikeCount,
		CreatedAt:      fromNanos(row.CreatedAt),
		UpdatedAt:      fromNanos(row.UpdatedAt),
	}, nil
}
