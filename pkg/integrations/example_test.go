package integrations_test

import (
	"fmt"

	"github.com/matzehuels/tmplgen/pkg/integrations"
)

func ExampleNormalizeRepoURL() {
	// Various repository URL formats are normalized to HTTPS
	fmt.Println(integrations.NormalizeRepoURL("git@github.com:user/repo.git"))
	fmt.Println(integrations.NormalizeRepoURL("git://github.com/user/repo"))
	fmt.Println(integrations.NormalizeRepoURL("git+https://github.com/user/repo.git"))
	// Output:
	// https://github.com/user/repo
	// https://github.com/user/repo
	// https://github.com/user/repo
}

func ExampleFirstNonEmpty() {
	// Homepage falls back to the repository, then to the registry page
	fmt.Println(integrations.FirstNonEmpty("", "https://github.com/serde-rs/serde", "https://crates.io/crates/serde"))
	// Output:
	// https://github.com/serde-rs/serde
}
