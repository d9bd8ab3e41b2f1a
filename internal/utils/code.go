package utils

import "crypto/rand"

// codeAlphabet holds the characters used in verification codes.  The
// ambiguous glyphs 0/O/1/I are excluded because staff read these codes
// aloud and customers type them by hand.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// codeLength is the number of characters in a verification code.  32
// symbols over 10 positions gives 32^10 (~10^15) possibilities, far
// beyond guessability for the booking volumes involved.
const codeLength = 10

// NewVerificationCode returns a fresh booking verification code built
// from cryptographically secure random data.  The same string is
// presented to staff as text and encoded into the booking's QR image;
// both paths redeem by exact, case-sensitive match against it.
func NewVerificationCode() (string, error) {
    buf := make([]byte, codeLength)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    out := make([]byte, codeLength)
    for i, b := range buf {
        out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
    }
    return string(out), nil
}
