//go:build vips

package main

import _ "tiffcmyk/codec/vips"
