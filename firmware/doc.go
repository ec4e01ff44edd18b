// Package firmware reads NICE firmware containers.
//
// # Container Format
//
// A container is a text file. Five header lines come first, in this order:
//
//	12345            checksum1 (decimal)
//	NICE.FIRMWARE    marker, must match exactly
//	2.10             version
//	FG01h,FG01k      hardware the image may be written to
//	1193046          checksum2 (decimal), the 24-bit image checksum
//
// Data lines follow. Each is ':' plus hex text and becomes one record:
//
//	:10000000214601360121470136007EFE09D2190140
//	...
//	:00000001FF
//
// The line ":00000001FF" ends the data and is not a record. Trailing
// whitespace is ignored on every line.
//
// # Usage
//
//	r, err := firmware.Open("FG01h.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	if !r.Header.Supports("FG01h") {
//	    log.Fatal("wrong hardware")
//	}
//
//	for {
//	    record, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%d bytes\n", len(record))
//	}
//
// A Reader is single pass. Reading the records again means opening the
// container again.
package firmware
