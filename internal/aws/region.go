package aws

import "slices"

const DefaultRegion = "us-east-1"

// knownRegions is the fallback list used to validate region switches.
var knownRegions = []string{
	"af-south-1",
	"ap-east-1",
	"ap-northeast-1",
	"ap-northeast-2",
	"ap-northeast-3",
	"ap-south-1",
	"ap-south-2",
	"ap-southeast-1",
	"ap-southeast-2",
	"ap-southeast-3",
	"ap-southeast-4",
	"ca-central-1",
	"ca-west-1",
	"eu-central-1",
	"eu-central-2",
	"eu-north-1",
	"eu-south-1",
	"eu-south-2",
	"eu-west-1",
	"eu-west-2",
	"eu-west-3",
	"il-central-1",
	"me-central-1",
	"me-south-1",
	"sa-east-1",
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
}

// Regions returns the known region names, sorted.
func Regions() []string {
	return slices.Clone(knownRegions)
}

// IsKnownRegion reports whether region is a known AWS region.
func IsKnownRegion(region string) bool {
	_, ok := slices.BinarySearch(knownRegions, region)
	return ok
}

// ResolveRegion picks the first non-empty region, falling back to DefaultRegion.
func ResolveRegion(candidates ...string) string {
	for _, r := range candidates {
		if r != "" {
			return r
		}
	}
	return DefaultRegion
}
