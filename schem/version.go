package schem

import (
	"fmt"
	"strings"
)

// Version is a game release a schematic is written for.
type Version struct {
	Name        string
	DataVersion int32
}

func (v Version) String() string {
	if v.Name == "" {
		return fmt.Sprintf("data-%d", v.DataVersion)
	}
	return v.Name
}

// Versions lists the releases that can be targeted by name.
var Versions = []Version{
	{Name: "1.12.1", DataVersion: 1241},
	{Name: "1.12.2", DataVersion: 1343},
	{Name: "1.13.2", DataVersion: 1631},
	{Name: "1.16.5", DataVersion: 2586},
	{Name: "1.18.2", DataVersion: 2975},
	{Name: "1.19.4", DataVersion: 3337},
	{Name: "1.20.1", DataVersion: 3465},
}

// DefaultVersion is the fixed legacy target, Java Edition 1.12.1.
var DefaultVersion = Versions[0]

// LookupVersion resolves a release name such as "1.12.1". An empty name
// gives DefaultVersion.
func LookupVersion(name string) (Version, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "JE_")
	if name == "" {
		return DefaultVersion, nil
	}
	name = strings.ReplaceAll(name, "_", ".")
	for _, v := range Versions {
		if v.Name == name {
			return v, nil
		}
	}
	known := make([]string, len(Versions))
	for i, v := range Versions {
		known[i] = v.Name
	}
	return Version{}, fmt.Errorf("unknown version %q (known: %s)", name, strings.Join(known, ", "))
}

func versionFromData(dv int32) Version {
	for _, v := range Versions {
		if v.DataVersion == dv {
			return v
		}
	}
	return Version{DataVersion: dv}
}
