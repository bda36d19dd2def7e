package services

import (
	"context"

	"github.com/mailvet/mailvet/cmd/web/mailhttp/handlers"
	"github.com/mailvet/mailvet/types"
	"github.com/mailvet/mailvet/verifier"

	"github.com/Dynom/TySug/finder"
	"github.com/sirupsen/logrus"
)

func NewVerifyService(v *verifier.EmailVerifier, f *finder.Finder, logger *logrus.Logger) VerifySvc {
	return VerifySvc{
		verifier: v,
		finder:   f,
		logger:   logger.WithField("svc", "verify"),
	}
}

type VerifySvc struct {
	verifier *verifier.EmailVerifier
	finder   *finder.Finder
	logger   *logrus.Entry
}

type VerifyResult struct {
	verifier.Result
	Alternative string
}

// HandleVerifyRequest runs the verification pipeline and, when the address
// didn't pass and alternatives are requested, consults the finder for a
// likely intended domain.
func (s *VerifySvc) HandleVerifyRequest(ctx context.Context, email string, includeAlternatives bool) VerifyResult {
	res := VerifyResult{
		Result: s.verifier.Verify(ctx, email),
	}

	log := s.logger.WithFields(logrus.Fields{
		handlers.RequestID.String(): ctx.Value(handlers.RequestID),
		"email":                     email,
	})

	if res.Valid || !includeAlternatives || s.finder == nil {
		return res
	}

	parts, err := types.NewEmailParts(email)
	if err != nil {
		// Nothing to suggest on, the local/domain split already failed
		return res
	}

	alt, score, exact := s.finder.FindCtx(ctx, parts.Domain)

	log.WithFields(logrus.Fields{
		"alt":   alt,
		"score": score,
		"exact": exact,
	}).Debug("Used Finder")

	if !exact && score > finder.WorstScoreValue {
		res.Alternative = types.NewEmailFromParts(parts.Local, alt).Address
	}

	return res
}
