package converter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"tiffcmyk/codec"
	"tiffcmyk/contracts"
	"tiffcmyk/files_manager"
	"tiffcmyk/jpegcmyk"
	"tiffcmyk/utils"
)

type (
	EncodeFunc func(pix []byte, width, height, quality, dpi int) ([]byte, error)
	DecodeFunc func(data []byte) (jpegcmyk.Image, error)
	DPIFunc    func(path string) (float64, float64, error)
)

// New returns the converter for cfg.Direction.
func New(cfg contracts.RunConfig, decoder codec.Decoder, log logrus.FieldLogger) contracts.Converter {
	if cfg.Direction == contracts.ToTIFF {
		return NewTIFFConverter(cfg, log)
	}
	return NewJPEGConverter(cfg, decoder, log)
}

// JPEGConverter turns an RGBA TIFF into a CMYK JPEG by reinterpreting the
// four channels.
type JPEGConverter struct {
	Config  contracts.RunConfig
	Decoder codec.Decoder
	Encode  EncodeFunc
	DPI     DPIFunc
	Log     logrus.FieldLogger
}

func NewJPEGConverter(cfg contracts.RunConfig, decoder codec.Decoder, log logrus.FieldLogger) *JPEGConverter {
	return &JPEGConverter{
		Config:  cfg,
		Decoder: decoder,
		Encode:  jpegcmyk.Encode,
		DPI:     utils.GetTIFFDPI,
		Log:     log,
	}
}

func (c *JPEGConverter) Convert(job contracts.ConversionJob) contracts.JobResult {
	return convertJob(job, c.Config.Overwrite, c.Log, c.convert)
}

func (c *JPEGConverter) convert(job contracts.ConversionJob, log logrus.FieldLogger) error {
	raster, err := c.Decoder.Decode(job.Source)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", job.Source, err)
	}
	raster, err = ToUchar(raster)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", job.Source, err)
	}
	raster, err = ToFourBands(raster)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", job.Source, err)
	}

	dpi := 0
	if c.DPI != nil {
		if x, _, err := c.DPI(job.Source); err == nil {
			dpi = int(math.Round(x))
		} else {
			log.WithError(err).Debug("no resolution found, writing JPEG without density")
		}
	}

	data, err := c.Encode(raster.Pix, raster.Width, raster.Height, c.Config.Quality, dpi)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", job.Destination, err)
	}
	if err := files_manager.WriteFileAtomic(job.Destination, data); err != nil {
		return fmt.Errorf("error writing %s: %w", job.Destination, err)
	}
	return nil
}

// TIFFConverter unpacks a CMYK JPEG and stores the raw channels in a TIFF
// with the same dimensions and channel count.
type TIFFConverter struct {
	Config contracts.RunConfig
	Decode DecodeFunc
	Log    logrus.FieldLogger
}

func NewTIFFConverter(cfg contracts.RunConfig, log logrus.FieldLogger) *TIFFConverter {
	return &TIFFConverter{
		Config: cfg,
		Decode: jpegcmyk.Decode,
		Log:    log,
	}
}

func (c *TIFFConverter) Convert(job contracts.ConversionJob) contracts.JobResult {
	return convertJob(job, c.Config.Overwrite, c.Log, c.convert)
}

func (c *TIFFConverter) convert(job contracts.ConversionJob, _ logrus.FieldLogger) error {
	data, err := os.ReadFile(job.Source)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", job.Source, err)
	}
	img, err := c.Decode(data)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", job.Source, err)
	}
	out, err := codec.EncodeTIFF(contracts.Raster{
		Width:  img.Width,
		Height: img.Height,
		Bands:  img.Components,
		Format: contracts.Uchar,
		Pix:    img.Pix,
	})
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", job.Destination, err)
	}
	if err := files_manager.WriteFileAtomic(job.Destination, out); err != nil {
		return fmt.Errorf("error writing %s: %w", job.Destination, err)
	}
	return nil
}

// convertJob applies the checks both directions share: skip an existing
// output unless overwriting, create the destination directory, then run
// fn and turn its error into a failed result.
func convertJob(job contracts.ConversionJob, overwrite bool, log logrus.FieldLogger, fn func(contracts.ConversionJob, logrus.FieldLogger) error) contracts.JobResult {
	start := time.Now()
	log = log.WithFields(logrus.Fields{"src": job.Source, "dst": job.Destination})
	result := contracts.JobResult{Job: job}

	if !overwrite && files_manager.Exists(job.Destination) {
		log.Warn("Output exists")
		result.Status = contracts.Skipped
		result.Reason = "output exists"
		return result
	}

	if err := files_manager.EnsureDir(filepath.Dir(job.Destination)); err != nil {
		log.WithError(err).Error("conversion failed")
		result.Status = contracts.Failed
		result.Reason = err.Error()
		return result
	}

	err := fn(job, log)
	result.Duration = time.Since(start)
	if err != nil {
		log.WithError(err).Error("conversion failed")
		result.Status = contracts.Failed
		result.Reason = err.Error()
		return result
	}
	log.WithField("took", result.Duration).Debug("converted")
	result.Status = contracts.Converted
	return result
}
