package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/resc/resource"
)

// Report lists what [Service.Publish] did with each output file, by path
// relative to the output root.
type Report struct {
	Written   []string
	Unchanged []string
	// Stale is filled instead of Written when publishing in check mode.
	Stale []string
}

// Publish writes out below the URL dest. Files whose content already
// matches are left alone. Every other file is uploaded to a hidden
// temporary file in its destination directory and then moved into place.
//
// With check set nothing is written; files that would change are reported
// as Stale and the returned error is [ErrStale].
func (s *Service) Publish(ctx context.Context, dest string, out resource.Output, check bool) (Report, error) {
	var rep Report

	dest = Normalize(dest)

	for _, rel := range out.Paths() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		target := url.Join(dest, rel)
		data := out[rel]

		same, err := s.unchanged(ctx, target, data)
		if err != nil {
			return rep, err
		}

		switch {
		case same:
			rep.Unchanged = append(rep.Unchanged, rel)

			continue
		case check:
			rep.Stale = append(rep.Stale, rel)

			continue
		}

		if err := s.replace(ctx, target, data); err != nil {
			return rep, err
		}

		rep.Written = append(rep.Written, rel)
	}

	s.logger.DebugContext(ctx, "publish complete",
		slog.String("dest", dest),
		slog.Int("written", len(rep.Written)),
		slog.Int("unchanged", len(rep.Unchanged)),
		slog.Int("stale", len(rep.Stale)),
	)

	if len(rep.Stale) > 0 {
		return rep, ErrStale.Wrapf(fmt.Sprintf("%d file(s) out of date", len(rep.Stale))).
			With(slog.Any("files", rep.Stale))
	}

	return rep, nil
}

// unchanged reports whether target exists with the same content as data.
func (s *Service) unchanged(ctx context.Context, target string, data []byte) (bool, error) {
	ok, err := s.fs.Exists(ctx, target)
	if err != nil || !ok {
		return false, nil
	}

	old, err := s.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return false, ErrPublish.Wrap(err).With(slog.String("file", target))
	}

	return len(old) == len(data) && xxh3.Hash(old) == xxh3.Hash(data), nil
}

// replace uploads data next to target and renames it into place. The
// temporary name keeps the extension of target, otherwise afs treats target
// as a directory to move into.
func (s *Service) replace(ctx context.Context, target string, data []byte) error {
	dir, name := url.Split(target, file.Scheme)
	tmp := url.Join(dir, fmt.Sprintf(".%016x.%s", xxh3.Hash(data), name))

	err := s.fs.Upload(ctx, tmp, file.DefaultFileOsMode, bytes.NewReader(data))
	if err != nil {
		return ErrPublish.Wrap(err).With(slog.String("file", target))
	}

	if err := s.fs.Move(ctx, tmp, target); err != nil {
		_ = s.fs.Delete(ctx, tmp)

		return ErrPublish.Wrap(err).With(slog.String("file", target))
	}

	s.logger.TraceContext(ctx, "wrote file", slog.String("file", target))

	return nil
}
