package services

// Volume math mirrored by the template sync: item volumes and resource
// quantities are derived, never entered by hand.

// CalcTypeArea is the share of a section's area a work type occupies.
func CalcTypeArea(totalArea, percentage float64) float64 {
	return totalArea * percentage / 100
}

// CalcItemVolume derives a work's volume from the work type's area and
// the template's per-unit volume.
func CalcItemVolume(typeArea, volumePerUnit float64) float64 {
	return typeArea * volumePerUnit
}

// CalcResourceQuantity derives a resource amount from the owning work's
// volume and the template's per-unit quantity.
func CalcResourceQuantity(volume, quantityPerUnit float64) float64 {
	return volume * quantityPerUnit
}
