package project

import "sort"

// Chain is a priority-sorted sequence of detectors. The first detector whose
// CanDetect succeeds and whose Detect returns a non-empty identity wins.
type Chain struct {
	detectors []Detector
}

// NewChain builds a chain from detectors, sorted by descending priority. Ties
// are broken by the order detectors were supplied in.
func NewChain(detectors ...Detector) *Chain {
	sorted := make([]Detector, len(detectors))
	copy(sorted, detectors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})
	return &Chain{detectors: sorted}
}

// Detect runs the chain against folder and returns the first matching
// identity, or nil if no detector claims the folder. A detector error is
// treated the same as a declined match: the chain tries the next detector.
func (c *Chain) Detect(folder string) (*Identity, error) {
	for _, d := range c.detectors {
		if !d.CanDetect(folder) {
			continue
		}
		identity, err := d.Detect(folder)
		if err != nil {
			continue
		}
		if identity != nil {
			return identity, nil
		}
	}
	return nil, nil
}
