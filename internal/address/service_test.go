package address

import (
	"testing"

	"github.com/townkart/townkart-backend/pkg/maps"
)

func TestMapPlaceDetails(t *testing.T) {
	details := &maps.PlaceDetails{
		FormattedAddress: "12 MG Road, Bengaluru, Karnataka 560001, IN",
		Location: maps.LatLng{
			Latitude:  12.9758,
			Longitude: 77.6045,
		},
		AddressComponents: []maps.AddressComponent{
			{LongName: "12", Types: []string{"street_number"}},
			{LongName: "MG Road", Types: []string{"route"}},
			{LongName: "Flat 3B", Types: []string{"subpremise"}},
			{LongName: "Bengaluru", Types: []string{"locality"}},
			{LongName: "Karnataka", Types: []string{"administrative_area_level_1"}},
			{LongName: "560001", Types: []string{"postal_code"}},
			{LongName: "India", Types: []string{"country"}},
		},
	}

	result, err := mapPlaceDetails(details)
	if err != nil {
		t.Fatalf("mapPlaceDetails failed: %v", err)
	}
	if result.Line1 != "12 MG Road" {
		t.Fatalf("unexpected line1 %q", result.Line1)
	}
	if result.Line2 == nil || *result.Line2 != "Flat 3B" {
		t.Fatalf("unexpected line2 %v", result.Line2)
	}
	if result.City != "Bengaluru" {
		t.Fatalf("unexpected city %q", result.City)
	}
	if result.State != "Karnataka" {
		t.Fatalf("unexpected state %q", result.State)
	}
	if result.PostalCode != "560001" {
		t.Fatalf("unexpected postal %q", result.PostalCode)
	}
	if result.Country != "India" {
		t.Fatalf("unexpected country %q", result.Country)
	}
	if result.Lat != 12.9758 || result.Lng != 77.6045 {
		t.Fatalf("unexpected location %+v", result)
	}
}

func TestMapPlaceDetailsFallsBackToFormattedAddress(t *testing.T) {
	details := &maps.PlaceDetails{
		FormattedAddress: "Corner Store, Indiranagar, Bengaluru, Karnataka 560038, IN",
		Location:         maps.LatLng{Latitude: 12.9719, Longitude: 77.6412},
		AddressComponents: []maps.AddressComponent{
			{LongName: "Bengaluru", Types: []string{"locality"}},
			{LongName: "Karnataka", Types: []string{"administrative_area_level_1"}},
			{LongName: "560038", Types: []string{"postal_code"}},
		},
	}

	result, err := mapPlaceDetails(details)
	if err != nil {
		t.Fatalf("mapPlaceDetails failed: %v", err)
	}
	if result.Line1 != "Corner Store" {
		t.Fatalf("expected first formatted segment as line1, got %q", result.Line1)
	}
	if result.Country != "IN" {
		t.Fatalf("expected default country IN, got %q", result.Country)
	}
}

func TestMapPlaceDetailsMissingCity(t *testing.T) {
	details := &maps.PlaceDetails{
		AddressComponents: []maps.AddressComponent{
			{LongName: "12", Types: []string{"street_number"}},
			{LongName: "MG Road", Types: []string{"route"}},
			{LongName: "Karnataka", Types: []string{"administrative_area_level_1"}},
			{LongName: "560001", Types: []string{"postal_code"}},
			{LongName: "India", Types: []string{"country"}},
		},
		Location: maps.LatLng{
			Latitude:  12.9758,
			Longitude: 77.6045,
		},
	}

	if _, err := mapPlaceDetails(details); err == nil {
		t.Fatal("expected error when city missing")
	}
}
