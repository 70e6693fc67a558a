package core

import "github.com/xiaobai01111/SSMT4-Linux/contracts"

// SelectCdn returns the URL of the highest-priority eligible node. Among
// equal-maximum-priority nodes the first in input order wins; callers must
// not rely on any other tie order. Selection runs once per manifest fetch.
func SelectCdn(nodes []contracts.CdnNode) (string, error) {
	best := -1
	chosen := ""
	for _, node := range nodes {
		if !node.Eligible() {
			continue
		}
		if best < 0 || node.P > best {
			best = node.P
			chosen = node.URL
		}
	}
	if best < 0 {
		return "", contracts.ErrNoEligibleCdn
	}
	return chosen, nil
}
