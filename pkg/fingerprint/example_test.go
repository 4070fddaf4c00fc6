package fingerprint_test

import (
	"fmt"

	"github.com/parti-studio/parti/pkg/fingerprint"
)

func ExampleControlImage() {
	hash := fingerprint.ControlImage([]byte("control pixels"))

	fmt.Println(hash)
	// Output:
	// sha256_32ffb07be9af0ee720f9cfabdeae7b66d00f1ef7295ab3c93c3ae790c846dac7
}

func ExampleCanonical() {
	content := fingerprint.ControlImage([]byte("control pixels"))
	canon := fingerprint.Canonical("3f2a", "floor_plan", content)

	fmt.Println(canon)
	// Output:
	// canon_e5b69477312cfb381cd699ccf00b056bac1cbfb70e6567d03a05699d936735a6
}
