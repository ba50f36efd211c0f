package malloc

func zeroblock(block []byte) {
	clear(block)
}
