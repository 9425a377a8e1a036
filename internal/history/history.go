// Package history is the controller behind the list of past captures.
package history

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/services"
)

// TimeLayout formats row timestamps.
const TimeLayout = "1/2/06 3:04 PM"

// PhotoDeleter is the part of photos.Store the history uses.
type PhotoDeleter interface {
	DeleteByReferences(ctx context.Context, refs []string)
}

// Recenterer is implemented by *mapview.View.
type Recenterer interface {
	CenterOn(c models.Coordinate, radius float64)
}

type List struct {
	records services.RecordStore
	photos  PhotoDeleter
	view    Recenterer
	logger  logging.Logger
}

func New(records services.RecordStore, photos PhotoDeleter, view Recenterer, logger logging.Logger) *List {
	return &List{records: records, photos: photos, view: view, logger: logger}
}

// Rows returns every record in store order.
func (l *List) Rows(ctx context.Context) []models.LocationRecord {
	return l.records.List(ctx)
}

// Count returns the number of rows.
func (l *List) Count(ctx context.Context) int {
	return l.records.Count(ctx)
}

// DeleteAt removes the record at row. Its photo is deleted only when the
// record has one. The removed record is returned.
func (l *List) DeleteAt(ctx context.Context, row int) (models.LocationRecord, bool) {
	r, ok := l.records.RemoveAt(ctx, row)
	if !ok {
		return models.LocationRecord{}, false
	}
	if r.HasPhoto() {
		l.photos.DeleteByReferences(ctx, []string{r.PhotoReference})
	}
	l.logger.Debug(ctx, "record deleted", "id", r.ID, "photo", r.PhotoReference)
	return r, true
}

// DeleteAll removes every photo referenced by the history in one bulk
// request and then clears the history. It returns the number of photo
// references handed to the photo store.
func (l *List) DeleteAll(ctx context.Context) (int, bool) {
	refs := l.records.AllPhotoReferences(ctx)
	l.photos.DeleteByReferences(ctx, refs)
	if !l.records.ClearAll(ctx) {
		return len(refs), false
	}
	l.logger.Info(ctx, "history cleared", "photos", len(refs))
	return len(refs), true
}

// Select resolves row to its record by primary key and re-centers the map on
// the record's coordinate at its saved view radius.
func (l *List) Select(ctx context.Context, row int) (models.LocationRecord, bool) {
	at, ok := l.records.GetAt(ctx, row)
	if !ok {
		return models.LocationRecord{}, false
	}
	r, ok := l.records.GetByID(ctx, at.ID)
	if !ok {
		return models.LocationRecord{}, false
	}

	c, err := r.Coordinate()
	if err != nil {
		l.logger.Warn(ctx, "record has malformed coordinates", "id", r.ID, "error", err)
		return r, false
	}
	l.view.CenterOn(c, r.ViewRadius)
	return r, true
}

// FormatRow renders a record as a single list row.
func FormatRow(r models.LocationRecord) string {
	parts := []string{
		r.Timestamp.Format(TimeLayout),
		r.Location,
		r.Street,
		r.Zipcode,
		r.Latitude + ", " + r.Longitude,
	}
	return strings.Join(parts, " | ")
}
