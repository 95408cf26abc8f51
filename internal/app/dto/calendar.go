package dto

import (
	domainavailability "staybook/internal/domain/availability"
)

type CalendarBlock struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Reason   string `json:"reason"`
}

type Calendar struct {
	ListingID string          `json:"listing_id"`
	Blocks    []CalendarBlock `json:"blocks"`
}

func MapCalendar(listingID string, blocks []domainavailability.Block) Calendar {
	out := Calendar{ListingID: listingID, Blocks: make([]CalendarBlock, 0, len(blocks))}
	for _, block := range blocks {
		out.Blocks = append(out.Blocks, CalendarBlock{
			CheckIn:  block.Range.CheckIn.Format("2006-01-02"),
			CheckOut: block.Range.CheckOut.Format("2006-01-02"),
			Reason:   string(block.Reason),
		})
	}
	return out
}
