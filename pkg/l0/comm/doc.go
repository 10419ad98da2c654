// Package comm provides L0 protocol support.
//
// L0 protocol is communicated between the car firmware (L0) and its host
// (L1 controller, usually a phone attached as USB accessory host).
//
// Every exchange is one fixed size request frame answered by exactly one
// fixed size response frame. Both frames are 16 bytes: a type byte, the
// payload of the type, zero padding and a CRC8 of the first 15 bytes.
// There is no sequencing and no resynchronization; a bad frame is answered
// with an InvalidCommand error and the next poll starts over.
//
// Producer: L0 firmware (Dispatcher)
// Consumer: L1 controller (Client)
package comm
