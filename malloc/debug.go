//go:build debug

package malloc

var poolblkinit = make([]byte, 1024)

func init() {
	for i := 0; i < len(poolblkinit); i++ {
		poolblkinit[i] = 0xff
	}
}

// initblock poisons freshly allocated payload, applications relying on
// zeroed memory from Alloc will trip early.
func initblock(block []byte) {
	for len(block) > 0 {
		n := copy(block, poolblkinit)
		block = block[n:]
	}
}
