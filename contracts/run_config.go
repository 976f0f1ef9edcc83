package contracts

import "time"

type Direction string

const (
	ToJPEG Direction = "jpg"
	ToTIFF Direction = "tif"
)

func (d Direction) SourceSuffixes() []string {
	if d == ToJPEG {
		return []string{".tif", ".tiff"}
	}
	return []string{".jpg", ".jpeg"}
}

func (d Direction) TargetExt() string {
	if d == ToJPEG {
		return ".jpg"
	}
	return ".tif"
}

// RunConfig is built once at startup and passed by value. Nothing mutates it afterwards.
type RunConfig struct {
	InPath           string
	OutPath          string
	Direction        Direction
	Decoder          string
	ReportPath       string
	LogPath          string
	Quality          int
	CPUPercent       int
	Overwrite        bool
	Recurse          bool
	Verbose          bool
	ProgressInterval time.Duration
}
