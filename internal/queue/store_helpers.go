package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, source_path, display_name, status, retry_count, preview_path, cutout_path, width, height, error_message, override_scale, override_rotation, override_offset_x, override_offset_y, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id           int64
		sourcePath   string
		displayName  string
		statusStr    string
		retryCount   sql.NullInt64
		previewPath  sql.NullString
		cutoutPath   sql.NullString
		width        sql.NullInt64
		height       sql.NullInt64
		errorMessage sql.NullString
		ovScale      sql.NullFloat64
		ovRotation   sql.NullFloat64
		ovOffsetX    sql.NullFloat64
		ovOffsetY    sql.NullFloat64
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&displayName,
		&statusStr,
		&retryCount,
		&previewPath,
		&cutoutPath,
		&width,
		&height,
		&errorMessage,
		&ovScale,
		&ovRotation,
		&ovOffsetX,
		&ovOffsetY,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:           id,
		SourcePath:   sourcePath,
		DisplayName:  displayName,
		Status:       Status(statusStr),
		RetryCount:   int(retryCount.Int64),
		PreviewPath:  previewPath.String,
		CutoutPath:   cutoutPath.String,
		Width:        int(width.Int64),
		Height:       int(height.Int64),
		ErrorMessage: errorMessage.String,
	}
	item.OverrideScale = nullableToPtr(ovScale)
	item.OverrideRotation = nullableToPtr(ovRotation)
	item.OverrideOffsetX = nullableToPtr(ovOffsetX)
	item.OverrideOffsetY = nullableToPtr(ovOffsetY)

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableToPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
