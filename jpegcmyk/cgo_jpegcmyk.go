//go:build cgo

package jpegcmyk

/*
#cgo LDFLAGS: -ljpeg

#include <stdio.h>
#include <stdlib.h>
#include <stdint.h>
#include <string.h>
#include <setjmp.h>
#include <jpeglib.h>

struct cmyk_error_mgr {
    struct jpeg_error_mgr pub;
    jmp_buf jump;
    char message[JMSG_LENGTH_MAX];
};

static void cmyk_error_exit(j_common_ptr cinfo) {
    struct cmyk_error_mgr* err = (struct cmyk_error_mgr*)cinfo->err;
    (*cinfo->err->format_message)(cinfo, err->message);
    longjmp(err->jump, 1);
}

static void cmyk_output_message(j_common_ptr cinfo) {
    (void)cinfo;
}

// CMYK raster → JPEG memory
static int write_cmyk_jpeg_to_mem(uint32_t width, uint32_t height, uint8_t* buffer,
                                  int quality, int dpi,
                                  unsigned char** out, unsigned long* outSize,
                                  char* errmsg) {
    struct jpeg_compress_struct cinfo;
    struct cmyk_error_mgr jerr;

    JSAMPROW row_pointer[1];
    size_t row_stride = (size_t)width * 4;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = cmyk_error_exit;
    jerr.pub.output_message = cmyk_output_message;
    if (setjmp(jerr.jump)) {
        strncpy(errmsg, jerr.message, JMSG_LENGTH_MAX - 1);
        jpeg_destroy_compress(&cinfo);
        return -1;
    }

    jpeg_create_compress(&cinfo);
    jpeg_mem_dest(&cinfo, out, outSize);

    cinfo.image_width = width;
    cinfo.image_height = height;
    cinfo.input_components = 4;
    cinfo.in_color_space = JCS_CMYK;

    jpeg_set_defaults(&cinfo);
    jpeg_set_quality(&cinfo, quality, TRUE);
    if (dpi > 0) {
        cinfo.density_unit = 1;
        cinfo.X_density = dpi;
        cinfo.Y_density = dpi;
    }

    jpeg_start_compress(&cinfo, TRUE);
    while (cinfo.next_scanline < cinfo.image_height) {
        row_pointer[0] = &buffer[cinfo.next_scanline * row_stride];
        jpeg_write_scanlines(&cinfo, row_pointer, 1);
    }
    jpeg_finish_compress(&cinfo);
    jpeg_destroy_compress(&cinfo);

    return 0;
}

// JPEG memory → CMYK raster, refuses files that are not CMYK or YCCK
static int read_cmyk_jpeg_from_mem(unsigned char* data, unsigned long size,
                                   unsigned char** out, uint32_t* width, uint32_t* height,
                                   int* components, char* errmsg) {
    struct jpeg_decompress_struct cinfo;
    struct cmyk_error_mgr jerr;

    JSAMPROW row_pointer[1];
    size_t row_stride;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = cmyk_error_exit;
    jerr.pub.output_message = cmyk_output_message;
    if (setjmp(jerr.jump)) {
        strncpy(errmsg, jerr.message, JMSG_LENGTH_MAX - 1);
        jpeg_destroy_decompress(&cinfo);
        return -1;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_mem_src(&cinfo, data, size);
    jpeg_read_header(&cinfo, TRUE);

    if (cinfo.jpeg_color_space != JCS_CMYK && cinfo.jpeg_color_space != JCS_YCCK) {
        snprintf(errmsg, JMSG_LENGTH_MAX, "not a CMYK JPEG (color space %d)", (int)cinfo.jpeg_color_space);
        jpeg_destroy_decompress(&cinfo);
        return -2;
    }
    cinfo.out_color_space = JCS_CMYK;

    jpeg_start_decompress(&cinfo);
    row_stride = (size_t)cinfo.output_width * cinfo.output_components;
    *out = (unsigned char*)malloc(row_stride * cinfo.output_height);
    if (*out == NULL) {
        snprintf(errmsg, JMSG_LENGTH_MAX, "out of memory");
        jpeg_destroy_decompress(&cinfo);
        return -3;
    }
    while (cinfo.output_scanline < cinfo.output_height) {
        row_pointer[0] = *out + cinfo.output_scanline * row_stride;
        jpeg_read_scanlines(&cinfo, row_pointer, 1);
    }

    *width = cinfo.output_width;
    *height = cinfo.output_height;
    *components = cinfo.output_components;

    jpeg_finish_decompress(&cinfo);
    jpeg_destroy_decompress(&cinfo);
    return 0;
}
*/
import "C"
import (
	"errors"
	"fmt"
	"unsafe"
)

func Available() bool { return true }

// Encode compresses width*height CMYK pixels at the given quality. A
// positive dpi is stored as JFIF density in dots per inch.
func Encode(pix []byte, width, height, quality, dpi int) ([]byte, error) {
	if err := checkInput(pix, width, height); err != nil {
		return nil, err
	}

	cBuf := C.CBytes(pix)
	defer C.free(cBuf)
	errBuf := (*C.char)(C.calloc(C.JMSG_LENGTH_MAX, 1))
	defer C.free(unsafe.Pointer(errBuf))

	var outBuf *C.uchar
	var outSize C.ulong

	rc := C.write_cmyk_jpeg_to_mem(
		C.uint32_t(width),
		C.uint32_t(height),
		(*C.uint8_t)(cBuf),
		C.int(quality),
		C.int(dpi),
		&outBuf, &outSize,
		errBuf,
	)
	if outBuf != nil {
		defer C.free(unsafe.Pointer(outBuf))
	}
	if rc != 0 {
		return nil, fmt.Errorf("jpeg encode failed: %s", C.GoString(errBuf))
	}
	return C.GoBytes(unsafe.Pointer(outBuf), C.int(outSize)), nil
}

// Decode decompresses a CMYK or YCCK JPEG into interleaved CMYK samples.
func Decode(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, errors.New("empty JPEG data")
	}

	cData := C.CBytes(data)
	defer C.free(cData)
	errBuf := (*C.char)(C.calloc(C.JMSG_LENGTH_MAX, 1))
	defer C.free(unsafe.Pointer(errBuf))

	var outBuf *C.uchar
	var w, h C.uint32_t
	var comps C.int

	rc := C.read_cmyk_jpeg_from_mem(
		(*C.uchar)(cData),
		C.ulong(len(data)),
		&outBuf,
		&w, &h,
		&comps,
		errBuf,
	)
	if outBuf != nil {
		defer C.free(unsafe.Pointer(outBuf))
	}
	if rc != 0 {
		return Image{}, fmt.Errorf("jpeg decode failed: %s", C.GoString(errBuf))
	}

	size := int(w) * int(h) * int(comps)
	return Image{
		Width:      int(w),
		Height:     int(h),
		Components: int(comps),
		Pix:        C.GoBytes(unsafe.Pointer(outBuf), C.int(size)),
	}, nil
}
