package referral

import "go.uber.org/fx"

// Module provides the referral code generator.
var Module = fx.Provide(newCodeGenerator)

func newCodeGenerator() CodeGenerator {
	return NewGenerator()
}
