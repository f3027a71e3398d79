package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/opencluster/framework-job-scheduler/api/controllers"
	jobControllers "github.com/opencluster/framework-job-scheduler/api/controllers/jobs"
	jobApi "github.com/opencluster/framework-job-scheduler/api/jobs"
	"github.com/opencluster/framework-job-scheduler/internal/auth"
	"github.com/opencluster/framework-job-scheduler/internal/config"
	"github.com/opencluster/framework-job-scheduler/internal/exitspec"
	fwkv1 "github.com/opencluster/framework-job-scheduler/pkg/apis/framework/v1"
	"github.com/opencluster/framework-job-scheduler/pkg/compiler"
	"github.com/opencluster/framework-job-scheduler/pkg/converter"
	"github.com/opencluster/framework-job-scheduler/pkg/frameworks"
	"github.com/opencluster/framework-job-scheduler/router"
)

func main() {
	cfg := config.New()

	exitSpecs, err := exitspec.Load(cfg.ExitSpecPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load exit spec")
	}

	authorizer, err := getAuthorizer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load virtual cluster membership")
	}

	frameworkClient, err := getFrameworkClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create framework client")
	}

	jobHandler := jobApi.New(cfg, frameworkClient, compiler.New(cfg), converter.New(exitSpecs), authorizer)
	runApiServer(cfg, jobControllers.New(jobHandler))
}

func runApiServer(cfg *config.Config, apiControllers ...controllers.Controller) {
	fs := initializeFlagSet()
	var (
		port = fs.StringP("port", "p", cfg.Port, "Port where API will be served")
	)
	parseFlagsFromArgs(fs)

	errsChan := make(chan error)
	go func() {
		log.Info().Msgf("Framework job scheduler API is serving on port %s", *port)
		errsChan <- http.ListenAndServe(fmt.Sprintf(":%s", *port), router.NewServer(apiControllers...))
	}()

	sigTerm := make(chan os.Signal, 1)
	signal.Notify(sigTerm, syscall.SIGTERM)
	signal.Notify(sigTerm, syscall.SIGINT)

	select {
	case <-sigTerm:
	case err := <-errsChan:
		if err != nil {
			log.Fatal().Err(err).Msg("Framework job scheduler API server crashed")
		}
	}
}

func getAuthorizer(cfg *config.Config) (auth.Authorizer, error) {
	if cfg.VirtualClustersPath == "" {
		return auth.AllowAll{}, nil
	}
	return auth.NewStatic(cfg.VirtualClustersPath)
}

func getFrameworkClient(cfg *config.Config) (*frameworks.Client, error) {
	restConfig, err := getKubeConfig()
	if err != nil {
		return nil, err
	}
	kubeClient, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, err
	}

	frameworkConfig := *restConfig
	frameworkConfig.APIPath = "/apis"
	frameworkConfig.GroupVersion = &schema.GroupVersion{Group: fwkv1.GroupName, Version: fwkv1.GroupVersion}
	frameworkConfig.NegotiatedSerializer = scheme.Codecs.WithoutConversion()
	restClient, err := rest.RESTClientFor(&frameworkConfig)
	if err != nil {
		return nil, err
	}

	return frameworks.New(restClient, kubeClient, cfg.Namespace), nil
}

func getKubeConfig() (*rest.Config, error) {
	if restConfig, err := rest.InClusterConfig(); err == nil {
		return restConfig, nil
	}
	kubeconfig := os.Getenv("KUBECONFIG")
	if kubeconfig == "" {
		kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
	}
	return clientcmd.BuildConfigFromFlags("", kubeconfig)
}

func initializeFlagSet() *pflag.FlagSet {
	// Flag domain.
	fs := pflag.NewFlagSet("default", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, "DESCRIPTION\n")
		fmt.Fprint(os.Stderr, "Framework job scheduler API server.\n")
		fmt.Fprint(os.Stderr, "\n")
		fmt.Fprint(os.Stderr, "FLAGS\n")
		fs.PrintDefaults()
	}
	return fs
}

func parseFlagsFromArgs(fs *pflag.FlagSet) {
	err := fs.Parse(os.Args[1:])
	switch {
	case err == pflag.ErrHelp:
		os.Exit(0)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err.Error())
		fs.Usage()
		os.Exit(2)
	}
}
