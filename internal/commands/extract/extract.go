// Package extract contains the backup extraction engine.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/blacktop/ibackup/internal/utils"
	"github.com/blacktop/ibackup/pkg/backup"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

// Config is the extract command configuration.
type Config struct {
	// path to the backup root
	Backup string `json:"backup,omitempty"`
	// output directory to write extracted files to
	Output string `json:"output,omitempty"`
	// extraction profile name
	Type string `json:"type,omitempty"`
	// proceed on a backup format version mismatch
	Override bool `json:"override,omitempty"`
	// flatten the extracted files paths (remove the folders)
	Flatten bool `json:"flatten,omitempty"`
	// number of concurrent copy workers
	Workers int `json:"workers,omitempty"`
	// show the progress bar (when using the CLI)
	Progress bool `json:"progress,omitempty"`
}

// Report totals one extraction run. Per-row problems never abort the run;
// they are counted here so the operator can judge completeness without
// reading logs line by line.
type Report struct {
	Type    string `json:"type"`
	Total   int    `json:"total"`
	Copied  int64  `json:"copied"`
	Missing int64  `json:"missing"`
	Failed  int64  `json:"failed"`
}

// Extract materializes every manifest row selected by the configured profile
// into the output directory, reconstructing each row's logical relative path
// under it. Rows whose fileID has no on-disk content file (the manifest and
// the filesystem can diverge) and rows whose copy fails are skipped and
// counted, never fatal.
func Extract(cfg *Config) (*Report, error) {
	if cfg.Type == "" {
		cfg.Type = "all"
	}
	ex, err := backup.GetExtractor(cfg.Type)
	if err != nil {
		return nil, err
	}

	b, err := backup.Open(cfg.Backup)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if err := b.CheckVersion(cfg.Override); err != nil {
		return nil, err
	}

	log.Infof("Found backup (v%s) from %q (#%s, %s) with iOS %s",
		b.FormatVersion(), b.DeviceName(), b.SerialNumber(), b.ProductType(), b.ProductVersion())

	files, err := ex.Files(b)
	if err != nil {
		return nil, err
	}

	// directory rows carry no content file; don't let them inflate the
	// missing count
	candidates := files[:0]
	for _, file := range files {
		if file.IsDirectory() {
			log.WithFields(log.Fields{
				"fileID": file.FileID,
				"path":   file.RelativePath,
			}).Debug("Skipping directory row")
			continue
		}
		candidates = append(candidates, file)
	}

	log.WithFields(log.Fields{
		"type":   ex.Name,
		"files":  len(candidates),
		"output": cfg.Output,
	}).Infof("Extracting %s", ex.Description)

	rep := &Report{Type: ex.Name, Total: len(candidates)}

	var p *mpb.Progress
	var bar *mpb.Bar
	if cfg.Progress && len(candidates) > 0 {
		p = mpb.New(
			mpb.WithWidth(60),
			mpb.WithRefreshRate(180*time.Millisecond),
		)
		bar = p.New(int64(len(candidates)),
			mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("|"),
			mpb.PrependDecorators(
				decor.CountersNoUnit("\t%d / %d"),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "✅ "),
			),
		)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	// distinct rows can sanitize (or flatten) to the same destination;
	// first claim wins, later rows are counted as failed instead of
	// silently clobbering the earlier copy
	var mu sync.Mutex
	claimed := make(map[string]string, len(candidates))

	var g errgroup.Group
	g.SetLimit(workers)
	for _, file := range candidates {
		file := file
		g.Go(func() error {
			defer func() {
				if bar != nil {
					bar.Increment()
				}
			}()
			src, ok := b.Index.Resolve(file.FileID)
			if !ok {
				// dangling reference: the manifest rows and the on-disk tree
				// legitimately diverge (directory rows, files the device
				// never uploaded)
				atomic.AddInt64(&rep.Missing, 1)
				log.WithFields(log.Fields{
					"fileID": file.FileID,
					"path":   file.RelativePath,
				}).Debug("No content file for manifest row")
				return nil
			}
			dst, err := destination(cfg.Output, file.RelativePath, cfg.Flatten)
			if err != nil {
				atomic.AddInt64(&rep.Failed, 1)
				utils.Indent(log.Warn, 2)(err.Error())
				return nil
			}
			mu.Lock()
			if prev, ok := claimed[dst]; ok {
				mu.Unlock()
				atomic.AddInt64(&rep.Failed, 1)
				utils.Indent(log.Warn, 2)(fmt.Sprintf("destination %s already claimed by %s (skipping %s)", dst, prev, file.RelativePath))
				return nil
			}
			claimed[dst] = file.RelativePath
			mu.Unlock()
			if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
				atomic.AddInt64(&rep.Failed, 1)
				utils.Indent(log.Warn, 2)(fmt.Sprintf("failed to create %s: %v", filepath.Dir(dst), err))
				return nil
			}
			if err := utils.Cp(filepath.Join(b.Path, filepath.FromSlash(src)), dst); err != nil {
				atomic.AddInt64(&rep.Failed, 1)
				utils.Indent(log.Warn, 2)(fmt.Sprintf("failed to copy %s: %v", file.RelativePath, err))
				return nil
			}
			atomic.AddInt64(&rep.Copied, 1)
			return nil
		})
	}
	g.Wait() // workers only ever count failures, they never return them
	if p != nil {
		p.Wait()
	}

	return rep, nil
}

// destination computes a traversal-safe destination path for a manifest row's
// logical relative path. The policy is conservative: split on '/', drop
// empty, '.' and '..' segments, neutralize characters that could re-anchor
// the path on the host (drive colons, embedded backslashes), then verify the
// join still resolves strictly inside root.
func destination(root, logical string, flatten bool) (string, error) {
	var segs []string
	for _, seg := range strings.Split(logical, "/") {
		seg = strings.ReplaceAll(seg, "\\", "_")
		seg = strings.ReplaceAll(seg, ":", "_")
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return "", fmt.Errorf("logical path %q has no usable components", logical)
	}
	if flatten {
		segs = segs[len(segs)-1:]
	}
	dst := filepath.Join(root, filepath.Join(segs...))
	rel, err := filepath.Rel(root, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("logical path %q escapes the destination root", logical)
	}
	return dst, nil
}
