package recipe

import (
	"github.com/wysaid/ccapkg/pkg/cpp"
	"github.com/wysaid/ccapkg/pkg/platform"
)

// LinkRequirements are the OS libraries a consumer of ccap must link
type LinkRequirements struct {
	Frameworks []string
	SystemLibs []string
}

var linkRequirements = map[platform.OS]LinkRequirements{
	platform.Macos: {Frameworks: []string{"Foundation", "AVFoundation", "CoreVideo", "CoreMedia", "Accelerate"}},
	platform.Linux: {SystemLibs: []string{"pthread"}},
}

// LinkRequirementsFor returns the requirements for target; other systems need none
func LinkRequirementsFor(target platform.OS) LinkRequirements {
	req := linkRequirements[target]
	return LinkRequirements{
		Frameworks: append([]string{}, req.Frameworks...),
		SystemLibs: append([]string{}, req.SystemLibs...),
	}
}

func applyLinkRequirements(info *cpp.Info, target platform.OS) {
	req := LinkRequirementsFor(target)
	info.Frameworks = append(info.Frameworks, req.Frameworks...)
	info.SystemLibs = append(info.SystemLibs, req.SystemLibs...)
}
