package model

import (
	"fmt"
)

// DeploymentSummary maps chainId → tag → qualified unit name → deployed
// address. One entry is added per successful deployment; entries are
// append-only by convention, so Add refuses to rewrite history.
type DeploymentSummary map[string]map[string]map[string]string

// Add records one deployment. Re-adding the exact same entry is a
// no-op; changing an existing address is refused.
func (d DeploymentSummary) Add(chainID, tag, unitName, address string) error {
	tags, ok := d[chainID]
	if !ok {
		tags = make(map[string]map[string]string)
		d[chainID] = tags
	}
	units, ok := tags[tag]
	if !ok {
		units = make(map[string]string)
		tags[tag] = units
	}
	if prior, ok := units[unitName]; ok && prior != address {
		return fmt.Errorf("deployment summary is append-only: %s/%s/%s already recorded at %s", chainID, tag, unitName, prior)
	}
	units[unitName] = address
	return nil
}

// Lookup returns the recorded address for a deployment, if any
func (d DeploymentSummary) Lookup(chainID, tag, unitName string) (string, bool) {
	address, ok := d[chainID][tag][unitName]
	return address, ok
}
