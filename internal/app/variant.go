package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/vk/spawnwind/internal/ctxlog"
	"github.com/vk/spawnwind/internal/document"
	"github.com/vk/spawnwind/internal/fsutil"
	"github.com/vk/spawnwind/internal/plan"
	"github.com/vk/spawnwind/internal/variantstore"
)

// errLinkedNotWritten is returned when a variant edits linked documents that
// it is not allowed to write.
var errLinkedNotWritten = errors.New("linked documents would not be written")

// writeVariant applies the edits of v to doc, which must be a private clone
// of the variant's input, and writes the result.
func (a *App) writeVariant(ctx context.Context, v *plan.Variant, doc *document.Document) (variantstore.Result, error) {
	logger := ctxlog.FromContext(ctx).With("variant", v.Name)
	res := variantstore.Result{Variant: v.Name}

	if err := applyEdits(doc, v); err != nil {
		return res, err
	}
	if linked := doc.Linked(); len(linked) > 0 && !v.WriteLinked {
		return res, fmt.Errorf("%w: %s edited without write_linked", errLinkedNotWritten, strings.Join(linked, ", "))
	}
	res.Hash = variantHash(doc)
	res.Output = outputPath(v, res.Hash)

	if v.Memoize {
		exists, err := fsutil.Exists(res.Output)
		if err != nil {
			return res, err
		}
		holder, granted := a.store.Claim(res.Output, v.Name)
		if exists || !granted {
			logger.Info("Variant already written, skipping.", "output", res.Output, "hash", res.Hash, "written_by", holder)
			res.Skipped = true
			return res, nil
		}
	}

	if !a.config.DryRun {
		if err := fsutil.EnsureParentDir(res.Output); err != nil {
			return res, err
		}
	}

	if v.WriteLinked {
		linked, err := writeLinked(ctx, doc, filepath.Dir(res.Output), linkedPrefix(res.Output), a.config.DryRun)
		if err != nil {
			return res, err
		}
		res.Linked = linked
	}

	if a.config.DryRun {
		logger.Info("Variant planned.", "output", res.Output, "hash", res.Hash, "linked", res.Linked)
		return res, nil
	}

	if _, err := doc.ToFile(res.Output); err != nil {
		return res, err
	}
	logger.Info("Variant written.", "output", res.Output, "hash", res.Hash)
	return res, nil
}

// applyEdits applies set edits, then blade edits, then the wind edit.
func applyEdits(doc *document.Document, v *plan.Variant) error {
	for _, e := range v.Set {
		if err := doc.Set(e.Key, e.Value); err != nil {
			return fmt.Errorf("failed to set %s: %w", e.Key, err)
		}
	}
	for _, b := range v.Blades {
		if err := doc.SetOnBlades(b.Base, b.Count, b.Value); err != nil {
			return fmt.Errorf("failed to set %s on %d blades: %w", b.Base, b.Count, err)
		}
	}
	if v.Wind != nil {
		if err := applyWind(doc, v.Wind); err != nil {
			return fmt.Errorf("failed to set wind: %w", err)
		}
	}
	return nil
}

// applyWind routes a wind edit to the document that holds the wind settings:
// the InflowWind input of a v8 model or the AeroDyn input of a v7 model.
func applyWind(doc *document.Document, w *plan.WindEdit) error {
	switch doc.Kind().Name {
	case document.InflowWind.Name:
		return setInflowWind(doc, w)
	case document.Fast8.Name:
		inflow, err := doc.Nested(document.KeyInflowWindFile)
		if err != nil {
			return err
		}
		return setInflowWind(inflow, w)
	case document.AeroDyn14.Name:
		return setAeroDynWindFile(doc, w)
	case document.Fast7.Name:
		aero, err := doc.Nested(document.KeyAeroDynFile)
		if err != nil {
			return err
		}
		return setAeroDynWindFile(aero, w)
	}
	return fmt.Errorf("wind cannot be set on a %s input", doc.Kind().Name)
}

func setInflowWind(doc *document.Document, w *plan.WindEdit) error {
	if w.Type != "" {
		if err := document.SetWindType(doc, w.Type); err != nil {
			return err
		}
	}
	if w.File != "" {
		return document.SetWindFile(doc, w.File)
	}
	return nil
}

func setAeroDynWindFile(doc *document.Document, w *plan.WindEdit) error {
	if w.Type != "" {
		return fmt.Errorf("wind type %q cannot be set on a %s input", w.Type, doc.Kind().Name)
	}
	if w.File == "" {
		return nil
	}
	return doc.Set("WindFile", w.File)
}

// linkedPrefix names linked documents after their primary output, so
// variants sharing a directory never overwrite each other's linked files.
func linkedPrefix(output string) string {
	base := filepath.Base(output)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_"
}

// writeLinked writes every opened linked document of doc into dir as
// <prefix><outerKey><ext> and points doc at the written copy. Deeper links
// are written first, prefixed with the keys leading to them.
func writeLinked(ctx context.Context, doc *document.Document, dir, prefix string, dryRun bool) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var written []string
	for _, key := range doc.Linked() {
		nested, err := doc.Nested(key)
		if err != nil {
			return nil, err
		}
		name := prefix + key

		inner, err := writeLinked(ctx, nested, dir, name+"_", dryRun)
		if err != nil {
			return nil, err
		}
		written = append(written, inner...)

		src, err := doc.Get(key)
		if err != nil {
			return nil, err
		}
		target := filepath.Join(dir, name+filepath.Ext(src))
		if !dryRun {
			if _, err := nested.ToFile(target); err != nil {
				return nil, err
			}
			logger.Debug("Linked document written.", "key", name, "path", target)
		}
		if err := doc.Set(key, target); err != nil {
			return nil, err
		}
		written = append(written, target)
	}
	return written, nil
}

// variantHash identifies the content of a variant. Edited linked documents
// contribute their own hashes so variants that differ only below an outer
// key do not collide.
func variantHash(doc *document.Document) string {
	linked := doc.Linked()
	if len(linked) == 0 {
		return doc.Hash()
	}

	parts := []string{doc.Hash()}
	for _, key := range linked {
		nested, err := doc.Nested(key)
		if err != nil {
			continue
		}
		parts = append(parts, key+"="+variantHash(nested))
	}
	sum := blake2b.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}

// outputPath places memoized variants in a directory named after their hash.
func outputPath(v *plan.Variant, hash string) string {
	if !v.Memoize {
		return v.Output
	}
	return filepath.Join(filepath.Dir(v.Output), hash, filepath.Base(v.Output))
}
