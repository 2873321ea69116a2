package ledgerobject

// Entry is the typed variant of a ledger object. Only the fields the
// aggregators consume are modelled; everything else stays in Object.Fields.
type Entry interface {
	EntryType() EntryType
}

type AccountRoot struct {
	Account    string `json:"Account"`
	Balance    Amount `json:"Balance"`
	Flags      uint32 `json:"Flags"`
	OwnerCount uint32 `json:"OwnerCount"`
	RegularKey string `json:"RegularKey"`
	Sequence   uint32 `json:"Sequence"`
}

func (*AccountRoot) EntryType() EntryType { return EntryTypeAccountRoot }

type RippleState struct {
	Balance   Amount `json:"Balance"`
	HighLimit Amount `json:"HighLimit"`
	LowLimit  Amount `json:"LowLimit"`
	Flags     uint32 `json:"Flags"`
}

func (*RippleState) EntryType() EntryType { return EntryTypeRippleState }

type Offer struct {
	Account   string `json:"Account"`
	TakerGets Amount `json:"TakerGets"`
	TakerPays Amount `json:"TakerPays"`
	Flags     uint32 `json:"Flags"`
}

func (*Offer) EntryType() EntryType { return EntryTypeOffer }

type NFTokenPage struct {
	NFTokens []NFTokenWrapper `json:"NFTokens"`
}

func (*NFTokenPage) EntryType() EntryType { return EntryTypeNFTokenPage }

type NFTokenWrapper struct {
	NFToken struct {
		NFTokenID string `json:"NFTokenID"`
		URI       string `json:"URI"`
	} `json:"NFToken"`
}

type NFTokenOffer struct {
	Amount      Amount `json:"Amount"`
	Flags       uint32 `json:"Flags"`
	NFTokenID   string `json:"NFTokenID"`
	Owner       string `json:"Owner"`
	Destination string `json:"Destination"`
	Expiration  uint32 `json:"Expiration"`
}

func (*NFTokenOffer) EntryType() EntryType { return EntryTypeNFTokenOffer }

// IsSell reports whether the offer sells the token (bit 0 of Flags).
func (o *NFTokenOffer) IsSell() bool {
	return o.Flags&LsfSellNFToken != 0
}

type Escrow struct {
	Account     string `json:"Account"`
	Destination string `json:"Destination"`
	Amount      Amount `json:"Amount"`
}

func (*Escrow) EntryType() EntryType { return EntryTypeEscrow }

type PayChannel struct {
	Account     string `json:"Account"`
	Destination string `json:"Destination"`
	Amount      Amount `json:"Amount"`
	Balance     Amount `json:"Balance"`
}

func (*PayChannel) EntryType() EntryType { return EntryTypePayChannel }

type SignerList struct {
	SignerQuorum  uint32 `json:"SignerQuorum"`
	SignerEntries []any  `json:"SignerEntries"`
}

func (*SignerList) EntryType() EntryType { return EntryTypeSignerList }

type FeeSettings struct {
	ReserveBase           *uint32 `json:"ReserveBase"`
	ReserveIncrement      *uint32 `json:"ReserveIncrement"`
	ReserveBaseDrops      *Amount `json:"ReserveBaseDrops"`
	ReserveIncrementDrops *Amount `json:"ReserveIncrementDrops"`
}

func (*FeeSettings) EntryType() EntryType { return EntryTypeFeeSettings }

// Reserves returns the base and owner reserves in drops, preferring the
// *Drops fields. ok is false when the object carries neither form.
func (f *FeeSettings) Reserves() (base, owner int64, ok bool) {
	switch {
	case f.ReserveBaseDrops != nil && f.ReserveIncrementDrops != nil:
		return f.ReserveBaseDrops.Drops, f.ReserveIncrementDrops.Drops, true
	case f.ReserveBase != nil && f.ReserveIncrement != nil:
		return int64(*f.ReserveBase), int64(*f.ReserveIncrement), true
	default:
		return 0, 0, false
	}
}

type Hook struct {
	Account string      `json:"Account"`
	Hooks   []HookEntry `json:"Hooks"`
}

func (*Hook) EntryType() EntryType { return EntryTypeHook }

type HookEntry struct {
	Hook struct {
		HookHash string `json:"HookHash"`
	} `json:"Hook"`
}

// HookHashes returns the hashes of the installed hooks, skipping empty slots.
func (h *Hook) HookHashes() []string {
	hashes := make([]string, 0, len(h.Hooks))
	for _, e := range h.Hooks {
		if e.Hook.HookHash != "" {
			hashes = append(hashes, e.Hook.HookHash)
		}
	}
	return hashes
}

type URIToken struct {
	Owner  string `json:"Owner"`
	Issuer string `json:"Issuer"`
	URI    string `json:"URI"`
	Flags  uint32 `json:"Flags"`
}

func (*URIToken) EntryType() EntryType { return EntryTypeURIToken }

// Generic is the variant for entry types no aggregator models.
type Generic struct {
	Type EntryType
}

func (g *Generic) EntryType() EntryType { return g.Type }
