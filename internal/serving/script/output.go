package script

import "bytes"

// limitedBuffer keeps at most limit bytes and silently drains the rest, so
// that a child writing too much never blocks on a full pipe. A limit of 0
// keeps everything.
type limitedBuffer struct {
	buf        bytes.Buffer
	limit      int64
	overflowed bool
}

func newLimitedBuffer(limit int64) *limitedBuffer {
	return &limitedBuffer{limit: limit}
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.limit > 0 {
		remaining := b.limit - int64(b.buf.Len())
		if int64(len(p)) > remaining {
			if remaining > 0 {
				b.buf.Write(p[:remaining])
			}
			b.overflowed = true

			return len(p), nil
		}
	}

	return b.buf.Write(p)
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

func (b *limitedBuffer) Overflowed() bool {
	return b.overflowed
}
