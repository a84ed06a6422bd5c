// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package hx711

// Reader provides calibrated readings from a channel.
//
// It is satisfied by *Converter.
type Reader interface {
	Read(ch Channel) (float64, error)
}

// Average returns the mean of factor calibrated readings from the channel.
func Average(r Reader, ch Channel, factor int) (float64, error) {
	if factor < 1 {
		return 0, ErrInvalidCount
	}
	var sum float64
	for i := 0; i < factor; i++ {
		v, err := r.Read(ch)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(factor), nil
}

// AverageA returns the mean of factor calibrated readings from channel A.
func AverageA(r Reader, factor int) (float64, error) {
	return Average(r, ChannelA, factor)
}

// AverageB returns the mean of factor calibrated readings from channel B.
func AverageB(r Reader, factor int) (float64, error) {
	return Average(r, ChannelB, factor)
}
