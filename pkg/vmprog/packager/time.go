package packager

import "time"

func wallClockUnix() int64 {
	return time.Now().Unix()
}
