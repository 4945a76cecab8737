package vtile

// zigZagEncode maps a signed 32-bit integer onto the unsigned range so that
// small absolute values encode to small unsigned values, per the protobuf
// varint convention: https://developers.google.com/protocol-buffers/docs/encoding#types
func zigZagEncode(n int32) int32 {
	return (n << 1) ^ (n >> 31)
}

// zigZagDecode is the inverse of zigZagEncode.
func zigZagDecode(n int32) int32 {
	return int32(uint32(n)>>1) ^ -(n & 1)
}
