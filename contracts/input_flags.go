package contracts

type InputFlags struct {
	InPath     string
	OutPath    string
	Format     string
	Decoder    string
	ReportPath string
	LogPath    string
	Quality    int
	CPUPercent int
	Overwrite  bool
	Recurse    bool
	Verbose    bool
}
