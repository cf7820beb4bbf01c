package document

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind describes one supported input file format. It is plain data: which
// lines hold file paths that must be made absolute on load, and which keys
// point at linked documents of another kind.
type Kind struct {
	// Name identifies the kind in plan files and log output.
	Name string

	// PathKey reports whether a line with this key holds a file path.
	PathKey func(key string) bool

	// PathLists names count keys. The lines following a count key hold that
	// many file paths, usually without keys of their own (airfoil lists).
	PathLists []string

	// Links maps an outer key to the kind name of the document it points to.
	// Keys missing from the map open as Generic.
	Links map[string]string

	// LinkKey is the key under which a primary input references a file of
	// this kind.
	LinkKey string
}

func containsFile(key string) bool {
	return strings.Contains(key, "File")
}

func fileKeyExcept(excluded ...string) func(string) bool {
	return func(key string) bool {
		return containsFile(key) && !slices.Contains(excluded, key)
	}
}

// Link keys used by the primary FAST inputs.
const (
	KeyAeroDynFile    = "ADFile"
	KeyAeroFile       = "AeroFile"
	KeyElastoDynFile  = "EDFile"
	KeyServoDynFile   = "ServoFile"
	KeyInflowWindFile = "InflowFile"
)

var (
	// Generic is a plain input with no path lines.
	Generic = Kind{Name: "generic"}

	// TurbSim is the turbulence generator input.
	TurbSim = Kind{Name: "turbsim"}

	// Fast7 is the primary FAST v7 input. It doubles as the structural and
	// control input for that version.
	Fast7 = Kind{
		Name: "fast7",
		PathKey: func(key string) bool {
			switch key {
			case "TwrFile", "ADFile", "ADAMSFile":
				return true
			}
			return strings.Contains(key, "BldFile")
		},
		Links: map[string]string{KeyAeroDynFile: "aerodyn14"},
	}

	// Fast8 is the primary FAST v8 input.
	Fast8 = Kind{
		Name:    "fast8",
		PathKey: fileKeyExcept("OutFileFmt"),
		Links: map[string]string{
			KeyElastoDynFile:  "elastodyn",
			KeyServoDynFile:   "servodyn",
			KeyInflowWindFile: "inflowwind",
			KeyAeroFile:       "aerodyn15",
		},
	}

	// AeroDyn14 is the AeroDyn input up to v14, which also carries the wind
	// file for FAST v7.
	AeroDyn14 = Kind{
		Name:      "aerodyn14",
		PathKey:   containsFile,
		PathLists: []string{"NumFoil"},
		LinkKey:   KeyAeroDynFile,
	}

	// AeroDyn15 is the AeroDyn input from v15.
	AeroDyn15 = Kind{
		Name:      "aerodyn15",
		PathKey:   containsFile,
		PathLists: []string{"NumAFfiles"},
		LinkKey:   KeyAeroFile,
	}

	// ServoDyn is the control and manoeuvre input of FAST v8.
	ServoDyn = Kind{
		Name:    "servodyn",
		PathKey: fileKeyExcept("OutFile"),
		LinkKey: KeyServoDynFile,
	}

	// ElastoDyn is the structural input of FAST v8.
	ElastoDyn = Kind{
		Name:    "elastodyn",
		PathKey: fileKeyExcept("OutFile", "DLL_FileName"),
		LinkKey: KeyElastoDynFile,
	}

	// InflowWind is the wind inflow input of FAST v8.
	InflowWind = Kind{
		Name: "inflowwind",
		PathKey: func(key string) bool {
			return strings.Contains(strings.ToLower(key), "filename")
		},
		LinkKey: KeyInflowWindFile,
	}
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{Generic, TurbSim, Fast7, Fast8, AeroDyn14, AeroDyn15, ServoDyn, ElastoDyn, InflowWind}
}

// KindByName looks up a kind. An empty name selects Generic.
func KindByName(name string) (Kind, error) {
	if name == "" {
		return Generic, nil
	}
	for _, k := range Kinds() {
		if k.Name == name {
			return k, nil
		}
	}
	return Kind{}, fmt.Errorf("unknown input kind %q", name)
}

// KindNames returns the names of all supported kinds.
func KindNames() []string {
	kinds := Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Name)
	}
	return names
}

// linkedKind returns the kind of the document behind an outer key.
func (k Kind) linkedKind(outerKey string) Kind {
	name, ok := k.Links[outerKey]
	if !ok {
		return Generic
	}
	linked, err := KindByName(name)
	if err != nil {
		return Generic
	}
	return linked
}

// pathIndices evaluates the kind's path policy against a document.
func (k Kind) pathIndices(d *Document) ([]int, error) {
	var indices []int
	for _, countKey := range k.PathLists {
		i, err := d.IndexOf(countKey)
		if err != nil {
			return nil, &ReferenceError{Key: countKey, Err: err}
		}
		n, err := strconv.Atoi(strings.TrimSpace(d.lines[i].Value()))
		if err != nil || n < 0 {
			return nil, &ReferenceError{Key: countKey, Err: fmt.Errorf("count %q is not a non-negative integer", d.lines[i].Value())}
		}
		for j := i + 1; j <= i+n && j < len(d.lines); j++ {
			indices = append(indices, j)
		}
	}
	if k.PathKey != nil {
		for _, i := range d.IndicesWhere(k.PathKey) {
			if !slices.Contains(indices, i) {
				indices = append(indices, i)
			}
		}
	}
	return indices, nil
}
