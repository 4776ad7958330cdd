package wire

import (
	"encoding/binary"

	"transfer-gate/internal/address"
	identitydomain "transfer-gate/internal/identity/domain"
	recoverydomain "transfer-gate/internal/recovery/domain"
	stepupdomain "transfer-gate/internal/stepup/domain"
)

func (w *writer) issuer(i identitydomain.Issuer) {
	w.address(i.Key)
	w.time(i.LastModified)
	w.time(i.ExpiresAt)
	w.bool(i.Active)
}

func (r *reader) issuer() identitydomain.Issuer {
	return identitydomain.Issuer{
		Key:          r.address(),
		LastModified: r.time(),
		ExpiresAt:    r.time(),
		Active:       r.bool(),
	}
}

// IdentitySize is the encoded size of rec.
func IdentitySize(rec *identitydomain.Record) int {
	return identityHeader + lengthPrefix + len(rec.Issuers)*IssuerSize + lengthPrefix + len(rec.RecoveredTo)*address.Size
}

// EncodeIdentity encodes an identity record.
func EncodeIdentity(rec *identitydomain.Record) []byte {
	w := &writer{buf: make([]byte, 0, IdentitySize(rec))}
	w.address(rec.Owner)
	w.address(rec.Account)
	w.u32(uint32(len(rec.Issuers)))
	for _, i := range rec.Issuers {
		w.issuer(i)
	}
	w.addresses(rec.RecoveredTo)
	return w.buf
}

// DecodeIdentity decodes an identity record.
func DecodeIdentity(b []byte) (*identitydomain.Record, error) {
	r := &reader{buf: b}
	rec := &identitydomain.Record{
		Owner:   r.address(),
		Account: r.address(),
	}
	if n := r.count(IssuerSize); n > 0 {
		rec.Issuers = make([]identitydomain.Issuer, n)
		for i := range rec.Issuers {
			rec.Issuers[i] = r.issuer()
		}
	}
	rec.RecoveredTo = r.addresses()
	if err := r.done(); err != nil {
		return nil, err
	}
	return rec, nil
}

// identityLayout returns the issuer count and the offset of the redirect
// sequence of an encoded identity, validating the whole record.
func identityLayout(b []byte) (issuers int, redirectOff int, err error) {
	if _, err := DecodeIdentity(b); err != nil {
		return 0, 0, err
	}
	issuers = int(binary.LittleEndian.Uint32(b[identityHeader:]))
	return issuers, identityHeader + lengthPrefix + issuers*IssuerSize, nil
}

// AppendIssuer grows an encoded identity by one issuer, written after the
// existing ones. b's backing array may be reused.
func AppendIssuer(b []byte, i identitydomain.Issuer) ([]byte, error) {
	n, tail, err := identityLayout(b)
	if err != nil {
		return nil, err
	}
	oldLen := len(b)
	out, err := Resize(b, oldLen+IssuerSize)
	if err != nil {
		return nil, err
	}
	copy(out[tail+IssuerSize:], out[tail:oldLen])
	w := &writer{}
	w.issuer(i)
	copy(out[tail:], w.buf)
	binary.LittleEndian.PutUint32(out[identityHeader:], uint32(n+1))
	return out, nil
}

// AppendRedirect grows an encoded identity by one recovery destination.
// b's backing array may be reused.
func AppendRedirect(b []byte, dest address.Address) ([]byte, error) {
	_, off, err := identityLayout(b)
	if err != nil {
		return nil, err
	}
	m := binary.LittleEndian.Uint32(b[off:])
	oldLen := len(b)
	out, err := Resize(b, oldLen+address.Size)
	if err != nil {
		return nil, err
	}
	copy(out[oldLen:], dest[:])
	binary.LittleEndian.PutUint32(out[off:], m+1)
	return out, nil
}

// EncodeRecoveryAuthority encodes a recovery quorum.
func EncodeRecoveryAuthority(a *recoverydomain.Authority) []byte {
	w := &writer{buf: make([]byte, 0, lengthPrefix+len(a.Authorities)*address.Size+1)}
	w.addresses(a.Authorities)
	w.u8(a.MinSignatures)
	return w.buf
}

// DecodeRecoveryAuthority decodes a recovery quorum.
func DecodeRecoveryAuthority(b []byte) (*recoverydomain.Authority, error) {
	r := &reader{buf: b}
	a := &recoverydomain.Authority{
		Authorities:   r.addresses(),
		MinSignatures: r.u8(),
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return a, nil
}

// EncodeLastActivity encodes the last transfer timestamp.
func EncodeLastActivity(l recoverydomain.LastActivity) []byte {
	w := &writer{buf: make([]byte, 0, LastTxSize)}
	w.time(l.LastTx)
	return w.buf
}

// DecodeLastActivity decodes the last transfer timestamp.
func DecodeLastActivity(b []byte) (recoverydomain.LastActivity, error) {
	r := &reader{buf: b}
	l := recoverydomain.LastActivity{LastTx: r.time()}
	return l, r.done()
}

func (w *writer) function(f stepupdomain.Function) {
	w.u8(uint8(f.Kind))
	w.u64(f.Max)
	w.u8(uint8(f.Window.Unit))
	w.u8(f.Window.Value)
}

func (r *reader) function() stepupdomain.Function {
	f := stepupdomain.Function{
		Kind: stepupdomain.Kind(r.u8()),
		Max:  r.u64(),
		Window: stepupdomain.Window{
			Unit:  stepupdomain.Unit(r.u8()),
			Value: r.u8(),
		},
	}
	if r.err == nil && f.Validate() != nil {
		r.err = ErrUnknownTag
	}
	return f
}

// EncodeParameters encodes a step-up policy.
func EncodeParameters(p *stepupdomain.Parameters) []byte {
	size := address.Size + lengthPrefix + len(p.Functions)*FunctionSize + address.Size + lengthPrefix + len(p.AllowedIssuers)*address.Size
	w := &writer{buf: make([]byte, 0, size)}
	w.address(p.Owner)
	w.u32(uint32(len(p.Functions)))
	for _, f := range p.Functions {
		w.function(f)
	}
	w.address(p.Approver)
	w.addresses(p.AllowedIssuers)
	return w.buf
}

// DecodeParameters decodes a step-up policy.
func DecodeParameters(b []byte) (*stepupdomain.Parameters, error) {
	r := &reader{buf: b}
	p := &stepupdomain.Parameters{Owner: r.address()}
	if n := r.count(FunctionSize); n > 0 {
		p.Functions = make([]stepupdomain.Function, n)
		for i := range p.Functions {
			p.Functions[i] = r.function()
		}
	}
	p.Approver = r.address()
	p.AllowedIssuers = r.addresses()
	if err := r.done(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodeApproval encodes the approval slot.
func EncodeApproval(a *stepupdomain.Approval) []byte {
	w := &writer{buf: make([]byte, 0, ApprovalSize)}
	w.address(a.Transaction.Source)
	w.address(a.Transaction.Destination)
	w.u64(a.Transaction.Amount)
	w.time(a.Transaction.Time)
	w.bool(a.Active)
	return w.buf
}

// DecodeApproval decodes the approval slot.
func DecodeApproval(b []byte) (*stepupdomain.Approval, error) {
	r := &reader{buf: b}
	a := &stepupdomain.Approval{
		Transaction: stepupdomain.Transaction{
			Source:      r.address(),
			Destination: r.address(),
			Amount:      r.u64(),
			Time:        r.time(),
		},
		Active: r.bool(),
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return a, nil
}
