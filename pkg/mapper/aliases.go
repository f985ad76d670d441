package mapper

import "maps"

var defaultAliases = map[string]string{
	// Import names that differ from the distribution name.
	"sklearn":  "scikit-learn",
	"cv2":      "opencv-python",
	"bs4":      "beautifulsoup4",
	"dotenv":   "python-dotenv",
	"yaml":     "pyyaml",
	"PIL":      "pillow",
	"tomli_w":  "tomli-w",
	"psycopg2": "psycopg2-binary",
	"jwt":      "pyjwt",
	"mock":     "pytest-mock",
	"np":       "numpy",
	"pd":       "pandas",
	"plt":      "matplotlib",
	"tf":       "tensorflow",

	// Common names listed so they resolve without an environment.
	"numpy":        "numpy",
	"pandas":       "pandas",
	"matplotlib":   "matplotlib",
	"torch":        "torch",
	"flask":        "flask",
	"django":       "django",
	"requests":     "requests",
	"boto3":        "boto3",
	"sqlalchemy":   "sqlalchemy",
	"pytest":       "pytest",
	"fastapi":      "fastapi",
	"typer":        "typer",
	"click":        "click",
	"rich":         "rich",
	"tomli":        "tomli",
	"toml":         "toml",
	"uvicorn":      "uvicorn",
	"pydantic":     "pydantic",
	"redis":        "redis",
	"pymongo":      "pymongo",
	"cryptography": "cryptography",

	// Standard library.
	"unittest":    None,
	"json":        None,
	"os":          None,
	"sys":         None,
	"re":          None,
	"math":        None,
	"datetime":    None,
	"collections": None,
	"typing":      None,
	"pathlib":     None,
	"shutil":      None,
	"subprocess":  None,
	"argparse":    None,
	"logging":     None,
	"time":        None,
}

// DefaultAliases returns a copy of the built-in alias table.
func DefaultAliases() map[string]string {
	return maps.Clone(defaultAliases)
}
