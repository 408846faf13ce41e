package nominatim

import (
	"math"
	"sort"
)

// ReduceLocations убирает локации, расположенные ближе minDistance метров
// к уже принятым. Проход жадный и зависит от порядка: первая локация
// всегда остается, каждая следующая сравнивается только с уже принятыми,
// а не со всеми парами. Исходный срез не меняется.
func ReduceLocations(locations []Location, minDistance float64) []Location {
	reduced := make([]Location, 0, len(locations))
	for _, loc := range locations {
		tooClose := false
		for _, kept := range reduced {
			if loc.DistanceTo(kept) < minDistance {
				tooClose = true
				break
			}
		}
		if !tooClose {
			reduced = append(reduced, loc)
		}
	}
	return reduced
}

// SortByImportance возвращает локации по убыванию importance.
// Сортировка устойчивая; локации без importance идут после всех
// оцененных. Исходный срез не меняется.
func SortByImportance(locations []Location) []Location {
	sorted := make([]Location, len(locations))
	copy(sorted, locations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return importanceRank(sorted[i]) > importanceRank(sorted[j])
	})
	return sorted
}

func importanceRank(loc Location) float64 {
	if loc.Importance == nil {
		return math.Inf(-1)
	}
	return *loc.Importance
}

// SortByDistance возвращает локации по возрастанию геодезического
// расстояния до origin. Расстояние считается один раз на локацию,
// сортировка устойчивая. Исходный срез не меняется.
func SortByDistance(locations []Location, origin Location) []Location {
	type keyed struct {
		loc  Location
		dist float64
	}

	keys := make([]keyed, len(locations))
	for i, loc := range locations {
		keys[i] = keyed{loc: loc, dist: loc.DistanceTo(origin)}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].dist < keys[j].dist
	})

	sorted := make([]Location, len(locations))
	for i, k := range keys {
		sorted[i] = k.loc
	}
	return sorted
}
