package services

import (
	"sort"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
)

// DeriveLegs expands every booking detail into its Pick and Drop legs and
// marks the ones that have an allocation row.
//
// When several allocations share a leg key the last one in allocs wins and a
// warning is returned for that key. Warnings never stop derivation.
func DeriveLegs(details []models.BookingDetail, allocs []models.Allocation) ([]models.Leg, []domain.DataConsistencyWarning) {
	byKey := make(map[models.LegKey]models.Allocation, len(allocs))
	counts := make(map[models.LegKey]int, len(allocs))
	order := []models.LegKey{}
	for _, a := range allocs {
		k := a.Key()
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
		byKey[k] = a
	}

	var warnings []domain.DataConsistencyWarning
	for _, k := range order {
		if counts[k] > 1 {
			warnings = append(warnings, domain.DataConsistencyWarning{
				BookingDetailID: k.BookingDetailID,
				LegType:         string(k.Type),
				Count:           counts[k],
				KeptID:          byKey[k].ID,
			})
		}
	}

	legs := make([]models.Leg, 0, len(details)*2)
	for _, d := range details {
		for _, lt := range []models.LegType{models.LegPick, models.LegDrop} {
			leg := baseLeg(d, lt)
			if a, ok := byKey[leg.Key()]; ok {
				annotate(&leg, a)
			}
			legs = append(legs, leg)
		}
	}
	return legs, warnings
}

func baseLeg(d models.BookingDetail, lt models.LegType) models.Leg {
	leg := models.Leg{
		BookingDetailID: d.ID,
		BookingID:       d.BookingID,
		Type:            lt,
		CustomerName:    d.CustomerName,
		ModelName:       d.ModelName,
		Category:        d.Category,
		Fuel:            d.Fuel,
		Transmission:    d.Transmission,
		VehicleID:       d.VehicleID,
		Registration:    d.Registration,
	}
	if lt == models.LegDrop {
		leg.Location = d.DropLocation
		leg.Time = d.DropAt
	} else {
		leg.Location = d.PickupLocation
		leg.Time = d.PickupAt
	}
	return leg
}

func annotate(leg *models.Leg, a models.Allocation) {
	leg.IsAllocated = true
	leg.AllocationID = a.ID
	leg.DriverID = a.DriverID
	leg.DriverName = a.DriverName
	// Pick legs always show the booked vehicle.
	if leg.Type == models.LegDrop && a.VehicleID != "" {
		leg.VehicleID = a.VehicleID
		leg.Registration = a.Registration
	}
}

// SortLegs returns a copy ordered unallocated first, then by leg time.
// Equal keys keep their input order.
func SortLegs(legs []models.Leg) []models.Leg {
	out := append([]models.Leg(nil), legs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsAllocated != out[j].IsAllocated {
			return !out[i].IsAllocated
		}
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// ResolveDisplayNames fills driver names and vehicle registrations that the
// allocation rows did not carry, using the candidate lists.
func ResolveDisplayNames(legs []models.Leg, drivers []models.Driver, vehicles []models.Vehicle) []models.Leg {
	names := driverNames(drivers)
	plates := vehiclePlates(vehicles)

	out := append([]models.Leg(nil), legs...)
	for i := range out {
		if out[i].DriverID != "" && out[i].DriverName == "" {
			out[i].DriverName = names[out[i].DriverID]
		}
		if out[i].VehicleID != "" && out[i].Registration == "" {
			out[i].Registration = plates[out[i].VehicleID]
		}
	}
	return out
}

// ApplyPendingEdits overlays unsaved selections on a copy of legs for display.
// Allocation state is left as derived; a pending vehicle on a Pick leg is ignored.
func ApplyPendingEdits(legs []models.Leg, edits map[models.LegKey]models.PendingEdit, drivers []models.Driver, vehicles []models.Vehicle) []models.Leg {
	out := append([]models.Leg(nil), legs...)
	if len(edits) == 0 {
		return out
	}
	names := driverNames(drivers)
	plates := vehiclePlates(vehicles)

	for i := range out {
		e, ok := edits[out[i].Key()]
		if !ok {
			continue
		}
		if e.DriverID != "" && e.DriverID != out[i].DriverID {
			out[i].DriverID = e.DriverID
			out[i].DriverName = names[e.DriverID]
			out[i].Pending = true
		}
		if out[i].Type == models.LegDrop && e.VehicleID != "" && e.VehicleID != out[i].VehicleID {
			out[i].VehicleID = e.VehicleID
			out[i].Registration = plates[e.VehicleID]
			out[i].Pending = true
		}
	}
	return out
}

func driverNames(drivers []models.Driver) map[string]string {
	m := make(map[string]string, len(drivers))
	for _, d := range drivers {
		m[d.ID] = d.Name
	}
	return m
}

func vehiclePlates(vehicles []models.Vehicle) map[string]string {
	m := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		m[v.ID] = v.Registration
	}
	return m
}
