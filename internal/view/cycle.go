package view

import "token_pulse/internal/domain"

// Advance moves the column header sort to the next key:
// none → marketCap → volume → price → holders → transactions → age → none.
// Every new key starts descending.
func Advance(spec domain.SortSpec) domain.SortSpec {
	if spec.Key == domain.SortNone {
		return domain.SortSpec{Key: domain.SortKeys[0], Direction: domain.SortDesc}
	}
	for i, k := range domain.SortKeys {
		if k != spec.Key {
			continue
		}
		if i+1 < len(domain.SortKeys) {
			return domain.SortSpec{Key: domain.SortKeys[i+1], Direction: domain.SortDesc}
		}
		break
	}
	return domain.SortSpec{Direction: domain.SortDesc}
}

// Select picks key directly. Picking the key already in effect flips the direction instead.
func Select(spec domain.SortSpec, key domain.SortKey) domain.SortSpec {
	if key != domain.SortNone && key == spec.Key {
		return Toggle(spec)
	}
	return domain.SortSpec{Key: key, Direction: domain.SortDesc}
}

// Toggle flips the direction of the current key. It does nothing without a key.
func Toggle(spec domain.SortSpec) domain.SortSpec {
	if spec.Key == domain.SortNone {
		return spec
	}
	spec.Direction = spec.Direction.Flip()
	return spec
}
