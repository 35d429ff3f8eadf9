package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	imageService "github.com/fhuszti/stored-images-ms-go/internal/usecase/image"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
	"github.com/fhuszti/stored-images-ms-go/internal/validation"
	"github.com/go-sql-driver/mysql"
)

const (
	mysqlErrDuplicateEntry = 1062
	topImagesLimit         = 10
)

const imageColumns = `id, mayo_image_id, mayo_image_title, mayo_thumbnail_url, mayo_full_image_url,
        mayo_image_width, mayo_image_height, mayo_create_date,
        d2l_image_url, d2l_org_unit_id, d2l_module_id, d2l_topic_id, d2l_file_name, d2l_file_path,
        inserted_by, inserted_at, alt_text, is_decorative, title, status, usage_count, last_used,
        content_type, file_size, tags, created_at, updated_at`

type ImageRepository struct {
	db  *sql.DB
	now func() time.Time
}

// compile-time check: *ImageRepository must satisfy port.ImageRepository
var _ port.ImageRepository = (*ImageRepository)(nil)

func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*model.StoredImage, error) {
	var img model.StoredImage
	if err := row.Scan(
		&img.ID, &img.MayoImageID, &img.MayoImageTitle, &img.MayoThumbnailURL, &img.MayoFullImageURL,
		&img.MayoImageWidth, &img.MayoImageHeight, &img.MayoCreateDate,
		&img.D2LImageURL, &img.D2LOrgUnitID, &img.D2LModuleID, &img.D2LTopicID, &img.D2LFileName, &img.D2LFilePath,
		&img.InsertedBy, &img.InsertedAt, &img.AltText, &img.IsDecorative, &img.Title, &img.Status, &img.UsageCount, &img.LastUsed,
		&img.ContentType, &img.FileSize, &img.Tags, &img.CreatedAt, &img.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &img, nil
}

// Insert stamps the record with the current time and persists it.
// Missing defaults are filled in: active status, a usage count of 1 and an empty tag list.
func (r *ImageRepository) Insert(ctx context.Context, img *model.StoredImage) error {
	logger.Debugf(ctx, "creating database record for mayo image %q in org unit %q...", img.MayoImageID, img.D2LOrgUnitID)

	if img.ID.IsNil() {
		img.ID = uuid.NewUUID()
	}
	if img.Status == "" {
		img.Status = model.ImageStatusActive
	}
	if img.UsageCount < 1 {
		img.UsageCount = 1
	}
	img.Tags = img.Tags.Normalise()
	if err := validation.ValidateStruct(img); err != nil {
		return imageService.NewValidationError(err)
	}

	now := r.now()
	img.InsertedAt, img.LastUsed, img.CreatedAt, img.UpdatedAt = now, now, now, now

	const query = `
      INSERT INTO stored_images
        (` + imageColumns + `)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		img.ID, img.MayoImageID, img.MayoImageTitle, img.MayoThumbnailURL, img.MayoFullImageURL,
		img.MayoImageWidth, img.MayoImageHeight, img.MayoCreateDate,
		img.D2LImageURL, img.D2LOrgUnitID, img.D2LModuleID, img.D2LTopicID, img.D2LFileName, img.D2LFilePath,
		img.InsertedBy, img.InsertedAt, img.AltText, img.IsDecorative, img.Title, img.Status, img.UsageCount, img.LastUsed,
		img.ContentType, img.FileSize, img.Tags, img.CreatedAt, img.UpdatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry {
			return imageService.ErrDuplicateActive
		}
		return fmt.Errorf("insert image #%s: %w", img.ID, err)
	}

	return nil
}

func (r *ImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StoredImage, error) {
	const query = `SELECT ` + imageColumns + ` FROM stored_images WHERE id = ?`

	img, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, imageService.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch image #%s: %w", id, err)
	}
	return img, nil
}

func (r *ImageRepository) FindActiveByExternalID(ctx context.Context, mayoImageID, orgUnitID string) (*model.StoredImage, error) {
	const query = `SELECT ` + imageColumns + `
      FROM stored_images
      WHERE mayo_image_id = ? AND d2l_org_unit_id = ? AND status = 'active'
      LIMIT 1`

	img, err := scanImage(r.db.QueryRowContext(ctx, query, mayoImageID, orgUnitID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, imageService.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch mayo image %q in org unit %q: %w", mayoImageID, orgUnitID, err)
	}
	return img, nil
}

func (r *ImageRepository) ListByOrgUnit(ctx context.Context, orgUnitID string, limit int) ([]*model.StoredImage, error) {
	const query = `SELECT ` + imageColumns + `
      FROM stored_images
      WHERE d2l_org_unit_id = ? AND status = 'active'
      ORDER BY inserted_at DESC
      LIMIT ?`
	return r.list(ctx, query, orgUnitID, limit)
}

func (r *ImageRepository) ListByUserAndOrgUnit(ctx context.Context, userID, orgUnitID string, limit int) ([]*model.StoredImage, error) {
	const query = `SELECT ` + imageColumns + `
      FROM stored_images
      WHERE d2l_org_unit_id = ? AND inserted_by = ? AND status = 'active'
      ORDER BY inserted_at DESC
      LIMIT ?`
	return r.list(ctx, query, orgUnitID, userID, limit)
}

// Search matches query as a case-insensitive substring of the Mayo title, the alt text or any tag.
func (r *ImageRepository) Search(ctx context.Context, query, orgUnitID string, limit int) ([]*model.StoredImage, error) {
	const stmt = `SELECT ` + imageColumns + `
      FROM stored_images
      WHERE d2l_org_unit_id = ? AND status = 'active'
        AND (
          mayo_image_title LIKE ?
          OR alt_text LIKE ?
          OR JSON_SEARCH(LOWER(tags), 'one', ?) IS NOT NULL
        )
      ORDER BY inserted_at DESC
      LIMIT ?`

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return r.list(ctx, stmt, orgUnitID, pattern, pattern, pattern, limit)
}

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *ImageRepository) list(ctx context.Context, query string, args ...any) ([]*model.StoredImage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	images := []*model.StoredImage{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return images, nil
}

// Update applies the set fields of patch, refreshes updated_at and returns the stored record.
// Empty alt text or title are stored as NULL.
func (r *ImageRepository) Update(ctx context.Context, id uuid.UUID, patch model.ImagePatch) (*model.StoredImage, error) {
	var (
		sets []string
		args []any
	)
	if patch.AltText != nil {
		sets = append(sets, "alt_text = NULLIF(?, '')")
		args = append(args, *patch.AltText)
	}
	if patch.IsDecorative != nil {
		sets = append(sets, "is_decorative = ?")
		args = append(args, *patch.IsDecorative)
	}
	if patch.Title != nil {
		sets = append(sets, "title = NULLIF(?, '')")
		args = append(args, *patch.Title)
	}
	if patch.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, patch.Tags.Normalise())
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.now(), id)

	query := "UPDATE stored_images SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update image #%s: %w", id, err)
	}

	return r.GetByID(ctx, id)
}

// IncrementUsage bumps the usage counter of an active image in a single statement so concurrent
// calls never lose an update. An image that is missing or no longer active yields ErrNotFound.
func (r *ImageRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (*model.StoredImage, error) {
	const query = `
      UPDATE stored_images
      SET usage_count = usage_count + 1, last_used = ?, updated_at = ?
      WHERE id = ? AND status = 'active'
    `
	now := r.now()
	res, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return nil, fmt.Errorf("increment usage of image #%s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, imageService.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *ImageRepository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	logger.Debugf(ctx, "marking image #%s as deleted...", id)

	const query = `UPDATE stored_images SET status = 'deleted', updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, r.now(), id)
	if err != nil {
		return fmt.Errorf("mark image #%s as deleted: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return imageService.ErrNotFound
	}
	return nil
}

// AggregateUsage folds the active images of an org unit into a summary and the ten most used images.
func (r *ImageRepository) AggregateUsage(ctx context.Context, orgUnitID string) (*model.UsageStats, error) {
	const summaryQuery = `
      SELECT COUNT(*), COALESCE(SUM(usage_count), 0), COALESCE(AVG(usage_count), 0), MAX(inserted_at), MIN(inserted_at)
      FROM stored_images
      WHERE d2l_org_unit_id = ? AND status = 'active'
    `
	var (
		stats          model.UsageStats
		newest, oldest sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, summaryQuery, orgUnitID).Scan(
		&stats.Summary.TotalImages, &stats.Summary.TotalUsage, &stats.Summary.AvgUsage, &newest, &oldest,
	); err != nil {
		return nil, fmt.Errorf("aggregate usage of org unit %q: %w", orgUnitID, err)
	}
	if newest.Valid {
		stats.Summary.MostRecentInsert = &newest.Time
	}
	if oldest.Valid {
		stats.Summary.OldestInsert = &oldest.Time
	}

	const topQuery = `
      SELECT id, mayo_image_title, usage_count, last_used
      FROM stored_images
      WHERE d2l_org_unit_id = ? AND status = 'active'
      ORDER BY usage_count DESC, last_used DESC
      LIMIT ?
    `
	rows, err := r.db.QueryContext(ctx, topQuery, orgUnitID, topImagesLimit)
	if err != nil {
		return nil, fmt.Errorf("list top images of org unit %q: %w", orgUnitID, err)
	}
	defer func() { _ = rows.Close() }()

	stats.TopImages = []model.TopImage{}
	for rows.Next() {
		var (
			id  uuid.UUID
			top model.TopImage
		)
		if err := rows.Scan(&id, &top.MayoImageTitle, &top.UsageCount, &top.LastUsed); err != nil {
			return nil, fmt.Errorf("scan top image: %w", err)
		}
		top.ID = id.String()
		stats.TopImages = append(stats.TopImages, top)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top images: %w", err)
	}

	return &stats, nil
}

// SetProbedMetadata only fills columns that are still NULL, and only on active images.
func (r *ImageRepository) SetProbedMetadata(ctx context.Context, id uuid.UUID, meta model.ProbedMetadata) error {
	const query = `
      UPDATE stored_images
      SET
        content_type      = COALESCE(content_type, NULLIF(?, '')),
        file_size         = COALESCE(file_size, NULLIF(?, 0)),
        mayo_image_width  = COALESCE(mayo_image_width, NULLIF(?, 0)),
        mayo_image_height = COALESCE(mayo_image_height, NULLIF(?, 0)),
        updated_at        = ?
      WHERE id = ? AND status = 'active'
    `
	if _, err := r.db.ExecContext(ctx, query,
		meta.ContentType, meta.FileSize, meta.Width, meta.Height, r.now(), id,
	); err != nil {
		return fmt.Errorf("save probed metadata of image #%s: %w", id, err)
	}
	return nil
}
