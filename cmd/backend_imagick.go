//go:build imagick

package main

import _ "tiffcmyk/codec/magick"
