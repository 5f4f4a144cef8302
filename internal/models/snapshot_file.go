package models

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeVehicles reads the snapshot file format: a JSON array of vehicles.
// Records without a number are dropped, duplicates keep the last one.
func DecodeVehicles(r io.Reader) (map[string]*Vehicle, error) {
	var records []*Vehicle
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("error decoding vehicles: %w", err)
	}

	vehicles := make(map[string]*Vehicle, len(records))
	for _, v := range records {
		if v == nil {
			continue
		}
		v.Normalize("")
		if v.Number == "" {
			continue
		}
		vehicles[v.Number] = v
	}
	return vehicles, nil
}

// EncodeVehicles writes vehicles in display order so snapshot files diff cleanly.
func EncodeVehicles(w io.Writer, vehicles map[string]*Vehicle) error {
	ordered := Snapshot{Vehicles: vehicles}.SortedVehicles()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ordered); err != nil {
		return fmt.Errorf("error encoding vehicles: %w", err)
	}
	return nil
}
