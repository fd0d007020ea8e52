package dbc

// keyword enumerates the recognized DBC statement keywords plus a
// sentinel for "no keyword matched".
type keyword int

const (
	kwNone keyword = iota
	kwVersion
	kwNS
	kwBS
	kwBU
	kwBO
	kwSGMulVal // SG_MUL_VAL_ — must be tried before kwSG
	kwSG
	kwCM
	kwVAL
	kwBADEFDEF // BA_DEF_DEF_ — must be tried before kwBADEF
	kwBADEF    // BA_DEF_ — must be tried before kwBA
	kwBA
	kwValTable
	kwSigGroup
	kwSigValType
	kwEV
	kwBOTxBU
)

func (k keyword) String() string {
	switch k {
	case kwVersion:
		return "VERSION"
	case kwNS:
		return "NS_"
	case kwBS:
		return "BS_"
	case kwBU:
		return "BU_"
	case kwBO:
		return "BO_"
	case kwSGMulVal:
		return "SG_MUL_VAL_"
	case kwSG:
		return "SG_"
	case kwCM:
		return "CM_"
	case kwVAL:
		return "VAL_"
	case kwBADEFDEF:
		return "BA_DEF_DEF_"
	case kwBADEF:
		return "BA_DEF_"
	case kwBA:
		return "BA_"
	case kwValTable:
		return "VAL_TABLE_"
	case kwSigGroup:
		return "SIG_GROUP_"
	case kwSigValType:
		return "SIG_VALTYPE_"
	case kwEV:
		return "EV_"
	case kwBOTxBU:
		return "BO_TX_BU_"
	default:
		return ""
	}
}

// keywordsLongestFirst is ordered so that prefix-sharing keywords are
// tried longest-first: SG_MUL_VAL_ before SG_, BA_DEF_DEF_ before
// BA_DEF_ before BA_. This is the single shared matcher spec.md §9
// asks for, replacing any per-section starts_with chain.
var keywordsLongestFirst = []keyword{
	kwSGMulVal,
	kwBADEFDEF,
	kwBADEF,
	kwValTable,
	kwSigGroup,
	kwSigValType,
	kwBOTxBU,
	kwVersion,
	kwNS,
	kwBS,
	kwBU,
	kwBO,
	kwSG,
	kwCM,
	kwVAL,
	kwBA,
	kwEV,
}
