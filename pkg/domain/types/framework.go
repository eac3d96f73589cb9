package types

import "github.com/m-mizutani/goerr/v2"

// Framework is the name of a compliance or security framework a risk can be mapped to
type Framework string

const (
	FrameworkNISTCSF        Framework = "NIST CSF"
	FrameworkNIST80053      Framework = "NIST SP 800-53"
	FrameworkISO27001       Framework = "ISO 27001"
	FrameworkISO27001AnnexA Framework = "ISO 27001 Annex A"
	FrameworkCIS            Framework = "CIS Controls"
	FrameworkPCIDSS         Framework = "PCI DSS"
	FrameworkHIPAA          Framework = "HIPAA"
	FrameworkGDPR           Framework = "GDPR"
	FrameworkCMMC           Framework = "CMMC"
	FrameworkCOBIT          Framework = "COBIT"
	FrameworkCSACCM         Framework = "CSA CCM"
)

// AllFrameworks returns the control catalog in display order
func AllFrameworks() []Framework {
	return []Framework{
		FrameworkNISTCSF,
		FrameworkNIST80053,
		FrameworkISO27001,
		FrameworkISO27001AnnexA,
		FrameworkCIS,
		FrameworkPCIDSS,
		FrameworkHIPAA,
		FrameworkGDPR,
		FrameworkCMMC,
		FrameworkCOBIT,
		FrameworkCSACCM,
	}
}

// IsValid checks if the framework is part of the catalog
func (f Framework) IsValid() bool {
	for _, known := range AllFrameworks() {
		if f == known {
			return true
		}
	}
	return false
}

// String returns the string representation of Framework
func (f Framework) String() string {
	return string(f)
}

// NormalizeFrameworks validates a control selection and returns it in catalog order.
// Unknown names and duplicates are rejected.
func NormalizeFrameworks(selected []Framework) ([]Framework, error) {
	seen := make(map[Framework]struct{}, len(selected))
	for _, f := range selected {
		if !f.IsValid() {
			return nil, goerr.New("unknown framework", goerr.V("framework", f))
		}
		if _, dup := seen[f]; dup {
			return nil, goerr.New("duplicate framework", goerr.V("framework", f))
		}
		seen[f] = struct{}{}
	}

	result := make([]Framework, 0, len(selected))
	for _, f := range AllFrameworks() {
		if _, ok := seen[f]; ok {
			result = append(result, f)
		}
	}
	return result, nil
}
