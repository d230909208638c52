package service

import (
	"context"
	"log"

	"github.com/HndrkDrs/WeekWise/internal/planner"
)

// Import merges an import payload into the bookings. Created categories are
// saved with the settings in the same operation.
func (p *Planner) Import(ctx context.Context, req planner.ImportRequest) (planner.ImportResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	res, err := planner.Import(p.settings, p.bookings, req)
	if err != nil {
		return planner.ImportResult{}, err
	}
	if res.SettingsChanged {
		err = p.commitBoth(ctx, res.Settings, res.Bookings)
	} else {
		err = p.commitBookings(ctx, res.Bookings)
	}
	if err != nil {
		return planner.ImportResult{}, err
	}
	log.Printf("Imported %d bookings (%s, %d invalid)", res.Imported, req.Mode, res.Invalid)
	return res, nil
}

// Export renders the bookings in the portable export format. A category
// name narrows the export the same way it narrows the view.
func (p *Planner) Export(category string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	bookings := planner.FilterByCategory(p.bookings, p.settings.BookingColors, category)
	return planner.Export(bookings, p.settings.BookingColors)
}
