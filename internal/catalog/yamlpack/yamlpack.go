// Package yamlpack reads catalog partitions from a directory of YAML pack
// files, one partition per file.
//
// A pack file looks like:
//
//	label: Meisterschaften
//	kind: mastery
//	entries:
//	  - id: iron-grip
//	    name: Iron Grip
//	    skill: melee
//	    level: 2
//	    availableIn: "blades 2"
//	    description: ...
package yamlpack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

const packExt = ".yaml"

// Pack is the on-disk form of one partition
type Pack struct {
	Label   string                           `yaml:"label"`
	Kind    entities.AbilityKind             `yaml:"kind"`
	Entries []entities.ReferenceLibraryEntry `yaml:"entries"`
}

// Validate checks entry invariants. Entries without a kind take the pack's.
func (p *Pack) Validate() error {
	if p.Kind != "" && !p.Kind.Valid() {
		return errors.InvalidArgumentf("pack kind %q is not mastery or spell", p.Kind)
	}

	seen := make(map[string]bool, len(p.Entries))
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.Kind == "" {
			e.Kind = p.Kind
		}

		switch {
		case e.ID == "":
			return errors.InvalidArgumentf("entry %d: id must not be empty", i)
		case e.Name == "":
			return errors.InvalidArgumentf("entry %q: name must not be empty", e.ID)
		case !e.Kind.Valid():
			return errors.InvalidArgumentf("entry %q: kind must be mastery or spell", e.ID)
		case e.Level < 0:
			return errors.InvalidArgumentf("entry %q: level must be >= 0", e.ID)
		case seen[e.ID]:
			return errors.InvalidArgumentf("entry %q: duplicate id", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// Source serves partitions from a pack directory. Files are read on every
// scan so that a broken file only fails its own partition.
type Source struct {
	dir string
}

var _ catalog.Source = (*Source)(nil)

// New creates a source for dir
func New(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open pack directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.InvalidArgumentf("%s is not a directory", dir)
	}
	return &Source{dir: dir}, nil
}

// ListPartitions returns one partition per *.yaml file, named after the file
func (s *Source) ListPartitions(_ context.Context) ([]catalog.Partition, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list pack directory %s", s.dir)
	}

	var out []catalog.Partition
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), packExt) {
			continue
		}
		out = append(out, catalog.Partition{ID: strings.TrimSuffix(f.Name(), packExt)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ScanPartition parses the pack file and returns its projected entries
func (s *Source) ScanPartition(_ context.Context, partition catalog.Partition, projection catalog.Projection) ([]entities.IndexEntry, error) {
	pack, err := s.read(partition.ID)
	if err != nil {
		return nil, err
	}

	out := make([]entities.IndexEntry, 0, len(pack.Entries))
	for _, e := range pack.Entries {
		out = append(out, catalog.Project(e.IndexEntry, projection))
	}
	return out, nil
}

// FetchFullEntry returns one entry with its description
func (s *Source) FetchFullEntry(_ context.Context, partition catalog.Partition, id string) (*entities.ReferenceLibraryEntry, error) {
	pack, err := s.read(partition.ID)
	if err != nil {
		return nil, err
	}

	for _, e := range pack.Entries {
		if e.ID == id {
			entry := e
			return &entry, nil
		}
	}
	return nil, errors.NotFoundf("entry %s not found in partition %s", id, partition.ID)
}

// LoadAll reads every pack in dir, for loaders that copy packs elsewhere
func LoadAll(ctx context.Context, dir string) (map[catalog.Partition][]entities.ReferenceLibraryEntry, error) {
	src, err := New(dir)
	if err != nil {
		return nil, err
	}

	partitions, err := src.ListPartitions(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[catalog.Partition][]entities.ReferenceLibraryEntry, len(partitions))
	for _, p := range partitions {
		pack, err := src.read(p.ID)
		if err != nil {
			return nil, err
		}
		p.Label = pack.Label
		out[p] = pack.Entries
	}
	return out, nil
}

func (s *Source) read(partitionID string) (*Pack, error) {
	if partitionID == "" || strings.ContainsAny(partitionID, `/\`) {
		return nil, errors.InvalidArgumentf("invalid partition id %q", partitionID)
	}

	path := filepath.Join(s.dir, partitionID+packExt)
	data, err := os.ReadFile(path) // #nosec G304 -- partition id is checked above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("partition %s not found", partitionID)
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, fmt.Sprintf("failed to parse %s", path))
	}
	if err := pack.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid pack %s", path)
	}

	for i := range pack.Entries {
		pack.Entries[i].Partition = partitionID
	}
	return &pack, nil
}
