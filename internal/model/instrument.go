package model

import (
	"fmt"
	"strings"
	"time"
)

// Venue is an exchange identifier.
type Venue string

const (
	SHFE  Venue = "SHFE"
	INE   Venue = "INE"
	DCE   Venue = "DCE"
	CZCE  Venue = "CZCE"
	CFFEX Venue = "CFFEX"
	GFEX  Venue = "GFEX"
)

// Venues lists every supported exchange.
var Venues = []Venue{SHFE, INE, DCE, CZCE, CFFEX, GFEX}

// ParseVenue matches s case-insensitively against Venues.
func ParseVenue(s string) (Venue, error) {
	v := Venue(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Venues {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown venue %q", s)
}

// InstrumentKey identifies an instrument across vendors and stores, printed as CODE.VENUE.
type InstrumentKey struct {
	Symbol string
	Venue  Venue
}

func (k InstrumentKey) String() string {
	return k.Symbol + "." + string(k.Venue)
}

// ParseInstrumentKey parses "RB.SHFE". The part after the last dot is the venue.
func ParseInstrumentKey(s string) (InstrumentKey, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return InstrumentKey{}, fmt.Errorf("instrument key %q: want CODE.VENUE", s)
	}
	venue, err := ParseVenue(s[i+1:])
	if err != nil {
		return InstrumentKey{}, fmt.Errorf("instrument key %q: %w", s, err)
	}
	return InstrumentKey{Symbol: strings.ToUpper(s[:i]), Venue: venue}, nil
}

// Instrument is a tradeable contract or product. Reference data, never mutated.
type Instrument struct {
	Name        string
	Code        string
	Venue       Venue
	ListingDate time.Time // earliest date data may exist, UTC midnight
}

// Key returns the instrument key (CODE.VENUE).
func (i Instrument) Key() InstrumentKey {
	return InstrumentKey{Symbol: i.Code, Venue: i.Venue}
}

// Label is the display form used in logs: name (CODE.VENUE).
func (i Instrument) Label() string {
	if i.Name == "" {
		return i.Key().String()
	}
	return i.Name + " (" + i.Key().String() + ")"
}
