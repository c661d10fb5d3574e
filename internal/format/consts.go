// Package format houses the low-level constants shared by every Infinity
// Engine resource: signature/version tags, fixed reference widths and the
// Windows-1252 text codec. Schema-level layouts live in the formats package.
package format

// Every resource opens with an 8-byte tag:
//
//	Offset  Size  Field
//	0x00    4     Signature ("CRE ", "ITM ", ...)
//	0x04    4     Version   ("V1.0", "V1  ", ...)
const (
	SignatureOffset = 0x00
	VersionOffset   = 0x04
	TagSize         = 4
	HeaderTagSize   = 8
)

// Fixed widths of reference fields.
const (
	ResRefSize = 8
	StrRefSize = 4
)

// NoStrRef is the string reference value meaning "no string".
const NoStrRef = 0xFFFFFFFF

// Signatures of the record formats understood by this module.
const (
	SigCRE = "CRE "
	SigCHR = "CHR "
	SigITM = "ITM "
	SigSPL = "SPL "
	SigCHU = "CHUI"
	SigGAM = "GAME"
	SigSTO = "STOR"
	SigTLK = "TLK "
	SigEFF = "EFF "
)
