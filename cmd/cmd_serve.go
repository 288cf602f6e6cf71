// cmd_serve.go - Server Command und Versions-Anzeige
// Hauptfunktionen: RunServer, versionHandler
package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/wortvek/wortvek/api"
	"github.com/wortvek/wortvek/envconfig"
	"github.com/wortvek/wortvek/server"
	"github.com/wortvek/wortvek/version"
)

// RunServer - Startet den wortvek-Server mit dem angegebenen Modell
func RunServer(_ *cobra.Command, argv []string) error {
	ln, err := net.Listen("tcp", envconfig.Host().Host)
	if err != nil {
		return err
	}

	return server.Serve(ln, argv[0])
}

// versionHandler - Zeigt die Version an, dazu die Server-Version wenn
// ein laufender Server erreichbar ist und abweicht
func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Printf("wortvek version is %s\n", version.Version)

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return
	}

	serverVersion, err := client.Version(cmd.Context())
	if err == nil && serverVersion != version.Version {
		fmt.Printf("Warning: server version is %s\n", serverVersion)
	}
}
