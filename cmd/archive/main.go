// Command archive pushes local upload and output artifacts to S3 so disk
// can be reclaimed on the app host without losing inspection history.
// Keys already present in the bucket are skipped, and -restore pulls a
// single archived file back to its local path.
package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/MohsenMaaleki/windsightai/infrastructure/filesystem"
)

func main() {
	bucket := flag.String("bucket", "", "destination S3 bucket")
	uploadDir := flag.String("uploads", "uploads", "local uploads directory")
	outputDir := flag.String("output", "output", "local output directory")
	restore := flag.String("restore", "", "archived key to download instead of archiving")
	flag.Parse()

	if *bucket == "" {
		logrus.Fatal("bucket is required")
	}

	ctx := context.Background()

	if *restore != "" {
		if err := restoreKey(ctx, *bucket, *restore); err != nil {
			logrus.WithError(err).Fatalf("restoring %s", *restore)
		}
		logrus.WithField("key", *restore).Info("restore complete")
		return
	}

	keys, err := filesystem.ListFiles(ctx, *bucket)
	if err != nil {
		logrus.WithError(err).Fatal("listing bucket")
	}
	archived := make(map[string]bool, len(keys))
	for _, k := range keys {
		archived[k] = true
	}

	total := 0
	for _, dir := range []string{*uploadDir, *outputDir} {
		n, err := archiveDir(ctx, *bucket, dir, archived)
		if err != nil {
			logrus.WithError(err).Fatalf("archiving %s", dir)
		}
		total += n
	}
	logrus.WithField("files", total).Info("archive complete")
}

func archiveDir(ctx context.Context, bucket, dir string, archived map[string]bool) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		key := filepath.ToSlash(path)
		if archived[key] {
			logrus.WithField("key", key).Debug("already archived, skipping")
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := filesystem.WriteFile(ctx, bucket, key, f); err != nil {
			return err
		}
		count++
		logrus.WithField("key", key).Debug("archived")
		return nil
	})
	return count, err
}

func restoreKey(ctx context.Context, bucket, key string) error {
	local := filepath.FromSlash(key)
	if dir := filepath.Dir(local); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(local)
	if err != nil {
		return err
	}
	defer f.Close()

	return filesystem.ReadFile(ctx, bucket, key, f)
}
