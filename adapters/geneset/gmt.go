package geneset

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"generank/domain/core"
	"generank/ports"
)

// GMTReader loads gene sets from a GMT flat file: one set per line,
// tab-separated, with the set name in the first column, a description
// in the second, and gene identifiers in the remaining columns.
type GMTReader struct {
	filePath string
}

// NewGMTReader creates a GMT file reader.
func NewGMTReader(filePath string) *GMTReader {
	return &GMTReader{filePath: filePath}
}

// LoadGeneSets reads all gene sets from the GMT file. Lines without at
// least a name and one member are rejected rather than skipped.
func (r *GMTReader) LoadGeneSets(ctx context.Context) (map[core.SetName][]core.GeneID, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GMT file: %w", err)
	}
	defer f.Close()

	sets := make(map[core.SetName][]core.GeneID)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, core.NewInvalidInputError(r.filePath,
				fmt.Sprintf("line %d: expected name, description and members, got %d columns", lineNo, len(fields)))
		}

		name := core.SetName(strings.TrimSpace(fields[0]))
		if name == "" {
			return nil, core.NewInvalidInputError(r.filePath, fmt.Sprintf("line %d: empty set name", lineNo))
		}
		if _, dup := sets[name]; dup {
			return nil, core.NewInvalidInputError(r.filePath, fmt.Sprintf("line %d: duplicate set name %s", lineNo, name))
		}

		members := make([]core.GeneID, 0, len(fields)-2)
		for _, raw := range fields[2:] {
			gene := strings.TrimSpace(raw)
			if gene == "" {
				continue
			}
			members = append(members, core.GeneID(gene))
		}
		sets[name] = members
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read GMT file: %w", err)
	}

	return sets, nil
}

var _ ports.GeneSetSource = (*GMTReader)(nil)
