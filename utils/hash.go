package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// BytesMD5 计算字节数组MD5
func BytesMD5(data []byte) string {
	hash := md5.New()
	hash.Write(data)
	return hex.EncodeToString(hash.Sum(nil))
}

// CoordKey 坐标缓存键，按 decimals 位小数对齐，约 1e-6 度为 0.1 米
func CoordKey(lat, lng float64, decimals int, extra ...any) string {
	parts := []string{
		strconv.FormatFloat(lat, 'f', decimals, 64),
		strconv.FormatFloat(lng, 'f', decimals, 64),
	}
	for _, e := range extra {
		parts = append(parts, fmt.Sprint(e))
	}
	return strings.Join(parts, ":")
}
