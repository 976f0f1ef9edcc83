package config

import (
	"flag"
	"fmt"
	"io"

	"tiffcmyk/contracts"
)

// ParseFlags reads the command line into raw InputFlags. Every option is
// registered under both its short and its long name.
func ParseFlags(args []string, output io.Writer) (contracts.InputFlags, error) {
	def := DefaultConfig()
	flags := contracts.InputFlags{
		Quality:    def.Quality,
		CPUPercent: def.CPUPercent,
		Decoder:    def.Decoder,
	}

	fs := flag.NewFlagSet("tiffcmyk", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { printUsage(fs, output) }

	fs.StringVar(&flags.InPath, "i", "", "Same as --inpath")
	fs.StringVar(&flags.InPath, "inpath", "", "Path to input file or directory")
	fs.StringVar(&flags.OutPath, "o", "", "Same as --outpath")
	fs.StringVar(&flags.OutPath, "outpath", "", "Path to output file or directory")
	fs.IntVar(&flags.Quality, "q", def.Quality, "Same as --quality")
	fs.IntVar(&flags.Quality, "quality", def.Quality, "JPEG quality value [0-100]")
	fs.StringVar(&flags.Format, "f", "", "Same as --format")
	fs.StringVar(&flags.Format, "format", "", "Output format: j | jpg | t | tif")
	fs.BoolVar(&flags.Overwrite, "ov", false, "Same as --overwrite")
	fs.BoolVar(&flags.Overwrite, "overwrite", false, "Replace existing files")
	fs.BoolVar(&flags.Recurse, "r", false, "Same as --recurse")
	fs.BoolVar(&flags.Recurse, "recurse", false, "Include all subdirectories")
	fs.IntVar(&flags.CPUPercent, "cpu", def.CPUPercent, "Percent of worker threads to CPUs [25 - 200]")
	fs.StringVar(&flags.Decoder, "d", def.Decoder, "Same as --decoder")
	fs.StringVar(&flags.Decoder, "decoder", def.Decoder, "TIFF decoder backend: go | vips | magick")
	fs.StringVar(&flags.ReportPath, "report", "", "Write a batch report (.json or .pdf)")
	fs.StringVar(&flags.LogPath, "log", "", "Also write log output to this file")
	fs.BoolVar(&flags.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Debug logging")

	if err := fs.Parse(args); err != nil {
		return contracts.InputFlags{}, err
	}
	if fs.NArg() > 0 {
		return contracts.InputFlags{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return flags, nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: tiffcmyk -i <inpath> -o <outpath> -f <j|jpg|t|tif> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Converts RGBA TIFF images to CMYK JPEG and back, one file or a whole directory tree.")
	fmt.Fprintln(w)
	fs.PrintDefaults()
}
