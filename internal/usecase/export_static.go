package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

type ExportInput struct {
	OutDir string
	// Assets are extra files written relative to OutDir.
	Assets map[string][]byte
	// Concurrency caps parallel page renders. Zero means one per page.
	Concurrency int
}

type ExportOutput struct {
	Files []string
	Error error
}

type ExportService struct {
	pages *PageService
	fs    FileSystem
}

func NewExportService(pages *PageService, fs FileSystem) *ExportService {
	return &ExportService{
		pages: pages,
		fs:    fs,
	}
}

// ExportStatic writes <out>/<slug>/index.html for every page and a copy of
// the first page at <out>/index.html. Each page renders from its own Env.
func (s *ExportService) ExportStatic(ctx context.Context, input ExportInput) ExportOutput {
	if input.OutDir == "" {
		return ExportOutput{Error: fmt.Errorf("output directory cannot be empty")}
	}

	pages := s.pages.Site().Pages()
	if len(pages) == 0 {
		return ExportOutput{Error: fmt.Errorf("site has no pages")}
	}

	var (
		mu    sync.Mutex
		files []string
	)
	record := func(path string) {
		mu.Lock()
		files = append(files, path)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	if input.Concurrency > 0 {
		g.SetLimit(input.Concurrency)
	}

	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			out := s.pages.ServePage(ctx, ServePageInput{Slug: page.Meta.Slug})
			if out.Error != nil {
				return out.Error
			}

			path := filepath.Join(input.OutDir, page.Meta.Slug, "index.html")
			if err := s.write(path, []byte(out.HTML)); err != nil {
				return err
			}
			record(path)

			if i == 0 {
				index := filepath.Join(input.OutDir, "index.html")
				if err := s.write(index, []byte(out.HTML)); err != nil {
					return err
				}
				record(index)
			}
			return nil
		})
	}

	for name, data := range input.Assets {
		name, data := name, data
		g.Go(func() error {
			path := filepath.Join(input.OutDir, filepath.FromSlash(name))
			if err := s.write(path, data); err != nil {
				return err
			}
			record(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ExportOutput{Error: err}
	}

	sort.Strings(files)
	return ExportOutput{Files: files}
}

func (s *ExportService) write(path string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := s.fs.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
