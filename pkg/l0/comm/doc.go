// Package comm provides the L0 command protocol of the vehicle.
package comm

// The operator talks to the vehicle with single ASCII bytes over a
// peer-to-peer link (Bluetooth SPP, UART, or a bridged transport). There
// is no framing, no sequence number and no acknowledgement: every byte is
// a complete command and a lost byte is simply lost.
//
// Reception is split in two halves. The interrupt half (Channel.Interrupt)
// only appends to a lock-free ring and never decodes. The loop half
// (Channel.Poll) dequeues and decodes one byte at a time.
//
// Producer: operator link
// Consumer: control loop
