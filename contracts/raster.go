package contracts

type SampleFormat int

const (
	Uchar SampleFormat = iota
	Char
	Ushort
	Short
	Uint
	Int
	Float
	Double
)

func (f SampleFormat) Size() int {
	switch f {
	case Uchar, Char:
		return 1
	case Ushort, Short:
		return 2
	case Uint, Int, Float:
		return 4
	case Double:
		return 8
	}
	return 0
}

func (f SampleFormat) String() string {
	switch f {
	case Uchar:
		return "uchar"
	case Char:
		return "char"
	case Ushort:
		return "ushort"
	case Short:
		return "short"
	case Uint:
		return "uint"
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	}
	return "unknown"
}

// Raster holds interleaved samples in native byte order.
type Raster struct {
	Width  int
	Height int
	Bands  int
	Format SampleFormat
	Pix    []byte
}
