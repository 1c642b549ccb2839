package realaddress

import (
	"math"
	"sort"

	"github.com/golang/geo/s2"
)

// maxNearestDistance is ~10km in radians on the unit sphere.
const maxNearestDistance = 0.00157

// s2CellLevel is the finest level whose cells are never narrower than
// maxNearestDistance. Any address within that distance of a query point
// then lies in the query cell or one of its eight neighbors.
var s2CellLevel = s2.MinWidthMetric.MaxLevel(maxNearestDistance)

// buildCellIndex buckets every address with valid coordinates by the S2 cell
// containing it.
func (d *Dataset) buildCellIndex() {
	d.cellIndex = make(map[s2.CellID][]int)
	for i, a := range d.addresses {
		ll := a.Coordinates.LatLng()
		if !ll.IsValid() {
			continue
		}
		cell := cellIDAtLevel(ll)
		d.cellIndex[cell] = append(d.cellIndex[cell], i)
	}
}

func cellIDAtLevel(ll s2.LatLng) s2.CellID {
	return s2.CellIDFromLatLng(ll).Parent(s2CellLevel)
}

// cellAndNeighbors returns the cells NearestAddress scans around a query
// point: its own cell plus the edge and corner neighbors. Near a cube
// vertex only three cells meet, so the result can hold fewer than nine.
func cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)

	edgeNeighbors := cell.EdgeNeighbors()
	for i := 0; i < 4; i++ {
		cells = append(cells, edgeNeighbors[i])
	}

	seen := make(map[s2.CellID]bool)
	for _, c := range cells {
		seen[c] = true
	}
	for i := 0; i < 4; i++ {
		for _, corner := range edgeNeighbors[i].EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}

type nearCandidate struct {
	idx  int
	dist float64
}

// NearestAddress returns the address closest to (lat, lng), provided one
// lies within about 10km. ok is false otherwise.
func (d *Dataset) NearestAddress(lat, lng float64) (Address, bool) {
	if math.IsNaN(lat) || math.IsNaN(lng) ||
		math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return Address{}, false
	}
	queryLL := s2.LatLngFromDegrees(lat, lng)
	if !queryLL.IsValid() {
		return Address{}, false
	}
	queryCell := cellIDAtLevel(queryLL)

	var candidates []nearCandidate
	for _, cell := range cellAndNeighbors(queryCell) {
		for _, idx := range d.cellIndex[cell] {
			dist := float64(queryLL.Distance(d.addresses[idx].Coordinates.LatLng()))
			candidates = append(candidates, nearCandidate{idx: idx, dist: dist})
		}
	}
	if len(candidates) == 0 {
		return Address{}, false
	}

	// Distance first, then dataset order, for deterministic results.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].idx < candidates[j].idx
	})

	best := candidates[0]
	if best.dist > maxNearestDistance {
		return Address{}, false
	}
	return d.addresses[best.idx], true
}

// NearestAddress returns the bundled address closest to (lat, lng).
func NearestAddress(lat, lng float64) (Address, bool) {
	return defaultDS().NearestAddress(lat, lng)
}
