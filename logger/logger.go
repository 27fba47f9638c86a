package logger

import (
	"log"
	"os"
)

// ProgressLogger logs the main steps of the HTML to PDF conversion.
var ProgressLogger = log.New(os.Stdout, "peachpdf.progress: ", log.LstdFlags)

// WarningLogger emits a warning for each non fatal error, like layout failures
// of one box, image loading errors or invalid style declarations.
var WarningLogger = log.New(os.Stdout, "peachpdf.warning: ", log.Lmsgprefix)
