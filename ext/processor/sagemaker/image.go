package sagemaker

import (
	"fmt"
	"strings"

	"github.com/odpf/jobpack/internal/errors"
)

const sparkRepository = "sagemaker-spark-processing"

// registry accounts hosting the spark processing images
var sparkImageAccounts = map[string]string{
	"ap-northeast-1": "411782140378",
	"ap-northeast-2": "860869212795",
	"ap-south-1":     "105495057255",
	"ap-southeast-1": "759080221371",
	"ap-southeast-2": "440695851116",
	"ca-central-1":   "446299261295",
	"cn-north-1":     "671472414489",
	"cn-northwest-1": "844356804704",
	"eu-central-1":   "906073651304",
	"eu-north-1":     "330188676905",
	"eu-west-1":      "571004829621",
	"eu-west-2":      "836651553127",
	"eu-west-3":      "136845547031",
	"sa-east-1":      "737130764395",
	"us-east-1":      "173754725891",
	"us-east-2":      "314815235551",
	"us-west-1":      "667973535471",
	"us-west-2":      "153931337802",
}

var sparkImageTags = map[string]string{
	"2.4": "2.4-cpu-py37-v1.3",
	"3.0": "3.0-cpu-py37-v1.0",
	"3.1": "3.1-cpu-py37-v1.0",
	"3.2": "3.2-cpu-py39-v1.1",
	"3.3": "3.3-cpu-py39-v1.0",
}

// SparkImageURI resolves the spark processing container for region and framework version
func SparkImageURI(region, frameworkVersion string) (string, error) {
	account, ok := sparkImageAccounts[region]
	if !ok {
		return "", errors.InvalidArgument(EntitySageMaker, fmt.Sprintf("no spark processing image known for region [%s], set processing.image_uri", region))
	}
	tag, ok := sparkImageTags[frameworkVersion]
	if !ok {
		return "", errors.InvalidArgument(EntitySageMaker, fmt.Sprintf("unsupported spark framework version [%s]", frameworkVersion))
	}

	domain := "amazonaws.com"
	if strings.HasPrefix(region, "cn-") {
		domain = "amazonaws.com.cn"
	}
	return fmt.Sprintf("%s.dkr.ecr.%s.%s/%s:%s", account, region, domain, sparkRepository, tag), nil
}
