package common

import "fmt"

type ErrorKind int

const (
	NonIntegerOperand ErrorKind = iota + 1
	ZeroDenominator
	InvalidBound
	InvalidDimension
	ArithmeticOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case NonIntegerOperand:
		return "non-integer operand"
	case ZeroDenominator:
		return "zero denominator"
	case InvalidBound:
		return "invalid bound"
	case InvalidDimension:
		return "invalid dimension"
	case ArithmeticOverflow:
		return "arithmetic overflow"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// DomainError is returned synchronously by the invalid call and never
// recovered from silently. Two DomainErrors match under errors.Is when
// their kinds are equal, so callers compare against the sentinels below.
type DomainError struct {
	Kind   ErrorKind
	Detail string
}

var (
	ErrNonIntegerOperand  = &DomainError{Kind: NonIntegerOperand}
	ErrZeroDenominator    = &DomainError{Kind: ZeroDenominator}
	ErrInvalidBound       = &DomainError{Kind: InvalidBound}
	ErrInvalidDimension   = &DomainError{Kind: InvalidDimension}
	ErrArithmeticOverflow = &DomainError{Kind: ArithmeticOverflow}
)

func domainError(kind ErrorKind, format string, v ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Detail: fmt.Sprintf(format, v...)}
}

func (e *DomainError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Kind == e.Kind
}
