package metrics

import (
	"testing"
)

func TestRegistryGathersWithoutError(t *testing.T) {
	EmitBuildInfo()
	IncrementSpawns()
	IncrementEvents("stdout")
	IncrementKillRequests("tree")
	IncrementKillRequests("")
	ObserveProcessLifetime(42)

	families, err := Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestIncrementEventsIgnoresEmptyType(t *testing.T) {
	// Must not register an empty label value.
	IncrementEvents("")
}
