package exif

import (
	"context"
	"os"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
	"gitlab.com/tozd/go/errors"
)

const exifLayout = "2006:01:02 15:04:05"

var ErrNoCaptureTime = errors.Base("exif capture time not found")

// Reader reads the capture time embedded in image files. Capture times
// carry no zone and are read as local time.
type Reader struct{}

func (Reader) DateTimeOriginal(ctx context.Context, path string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return time.Time{}, errors.Errorf("decoding exif of %s: %w", path, err)
	}

	for _, field := range []goexif.FieldName{goexif.DateTimeOriginal, goexif.DateTimeDigitized} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		str, err := tag.StringVal()
		if err != nil {
			continue
		}
		if parsed, err := time.ParseInLocation(exifLayout, str, time.Local); err == nil {
			return parsed, nil
		}
	}

	if parsed, err := x.DateTime(); err == nil {
		return parsed, nil
	}

	return time.Time{}, errors.WithStack(ErrNoCaptureTime)
}
