// Package vecfile loads word vectors in the fastText / word2vec text format:
//
//	<count> <dim>
//	<token> <v1> ... <vdim>
//
// Files ending in .gz are decompressed on the fly
package vecfile

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strconv"
	"strings"

	"satd/internal/core/embedding"
	perr "satd/internal/platform/errors"
	"satd/internal/platform/logger"
)

// Options tune loading
type Options struct {
	// Dim, when positive, must equal the header dimension
	Dim int
	// Skip drops rows whose token equals this string
	Skip string
}

// Open loads the vectors at path
func Open(path string, opt Options) (*embedding.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "open vectors %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "gunzip vectors %s", path)
		}
		defer gz.Close()
		r = gz
	}

	t, err := Read(r, opt)
	if err != nil {
		return nil, perr.WithOp(err, path)
	}
	logger.Named("vecfile").Info().
		Str("path", path).
		Int("tokens", t.Len()).
		Int("dim", t.Dim()).
		Msg("vectors loaded")
	return t, nil
}

// Read parses the text format from r
func Read(r io.Reader, opt Options) (*embedding.Table, error) {
	sc := bufio.NewScanner(r)
	// 300-d rows run to a few kilobytes; long tokens can push past the default
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "read vectors header")
		}
		return nil, perr.ArtifactLoadf("vectors file is empty")
	}
	count, dim, err := parseHeader(sc.Text())
	if err != nil {
		return nil, err
	}
	if opt.Dim > 0 && opt.Dim != dim {
		return nil, perr.ConfigMismatchf("vectors have dimension %d, expected %d", dim, opt.Dim)
	}

	t, err := embedding.NewTable(dim)
	if err != nil {
		return nil, err
	}

	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), " \r")
		if text == "" {
			continue
		}
		fields := strings.Split(text, " ")
		if len(fields) != dim+1 {
			return nil, perr.ArtifactLoadf("line %d: got %d values, want %d", line, len(fields)-1, dim)
		}
		tok := fields[0]
		if opt.Skip != "" && tok == opt.Skip {
			continue
		}
		v := make(embedding.Vector, dim)
		for i, f := range fields[1:] {
			x, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "line %d: bad component %d", line, i+1)
			}
			v[i] = float32(x)
		}
		if err := t.Set(tok, v); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "read vectors")
	}
	if count > 0 && t.Len() == 0 {
		return nil, perr.ArtifactLoadf("header declares %d vectors, none read", count)
	}
	return t, nil
}

func parseHeader(s string) (count, dim int, err error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return 0, 0, perr.ArtifactLoadf("malformed header %q, want \"<count> <dim>\"", s)
	}
	count, err = strconv.Atoi(parts[0])
	if err != nil || count < 0 {
		return 0, 0, perr.ArtifactLoadf("malformed vector count %q", parts[0])
	}
	dim, err = strconv.Atoi(parts[1])
	if err != nil || dim <= 0 {
		return 0, 0, perr.ArtifactLoadf("malformed dimension %q", parts[1])
	}
	return count, dim, nil
}
