/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/DBAtlas/cmd"
	"github.com/josephgoksu/DBAtlas/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
