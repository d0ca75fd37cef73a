//go:build !windows

package floating

func (floating *Window) applyNativeOpacity(uint8) {}
