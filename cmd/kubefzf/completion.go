// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	v1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/monadic/kubefzf/internal/dispatch"
	"github.com/monadic/kubefzf/internal/kubectl"
	"github.com/monadic/kubefzf/internal/logging"
	"github.com/monadic/kubefzf/internal/manifest"
	"github.com/monadic/kubefzf/internal/runner"
)

// rolloutActions are the kubectl rollout sub-commands.
var rolloutActions = []string{"history", "pause", "restart", "resume", "status", "undo"}

// Namespace completion cache (avoid repeated API calls during tab-complete)
var (
	cachedNamespaces     []string
	namespaceCacheExpiry time.Time
	namespaceCacheMu     sync.Mutex
)

// Completion data sources, replaced in tests.
var (
	listNamespaces    = clusterNamespaces
	listResourceTypes = apiResourceNames
	listFolders       = manifestFolders
)

// completeArgs completes the positional arguments of the root command:
// the command name, then what that command selects from.
func completeArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if n := len(args); n > 0 && (args[n-1] == "-n" || args[n-1] == "--namespace") {
		return completeNamespaces(cmd, args, toComplete)
	}
	if strings.HasPrefix(toComplete, "-") {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	if len(args) == 0 {
		var names []string
		for _, c := range dispatch.Commands(0) {
			names = append(names, fmt.Sprintf("%s\t%s", c, dispatch.Describe(c).Summary))
		}
		return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	_, behavior, ok := dispatch.Lookup(args[0])
	if !ok {
		return nil, cobra.ShellCompDirectiveDefault
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	switch behavior.Family {
	case dispatch.FamilyManifest:
		if len(args) == 1 {
			return filterPrefix(listFolders(), toComplete), cobra.ShellCompDirectiveFilterDirs
		}
	case dispatch.FamilyNative:
		positional := len(positionalArgs(args[1:]))
		if behavior.SubAction {
			if positional == 0 {
				return filterPrefix(rolloutActions, toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			positional--
		}
		if positional == 0 {
			types, err := listResourceTypes(ctx)
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return filterPrefix(types, toComplete), cobra.ShellCompDirectiveNoFileComp
		}
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// positionalArgs drops flags and their values from args.
func positionalArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == dispatch.Separator:
			return out
		case dispatch.TakesValue(a):
			i++
		case strings.HasPrefix(a, "-"):
		default:
			out = append(out, a)
		}
	}
	return out
}

// completeNamespaces returns available namespaces from current kubectl context
func completeNamespaces(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	namespaceCacheMu.Lock()
	defer namespaceCacheMu.Unlock()

	// Return cache if fresh (3 second TTL)
	if time.Now().Before(namespaceCacheExpiry) && len(cachedNamespaces) > 0 {
		return filterPrefix(cachedNamespaces, toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	// Quick timeout for completion - don't block shell
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	namespaces, err := listNamespaces(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cachedNamespaces = namespaces
	namespaceCacheExpiry = time.Now().Add(3 * time.Second)

	return filterPrefix(namespaces, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// buildConfig builds a Kubernetes client config from the kubeconfig
// loading rules ($KUBECONFIG, then ~/.kube/config).
func buildConfig() (*rest.Config, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{})
	return kubeConfig.ClientConfig()
}

func clusterNamespaces(ctx context.Context) ([]string, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	dynClient, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, err
	}
	list, err := dynClient.Resource(schema.GroupVersionResource{
		Version:  "v1",
		Resource: "namespaces",
	}).List(ctx, v1.ListOptions{})
	if err != nil {
		return nil, err
	}

	var namespaces []string
	for _, item := range list.Items {
		namespaces = append(namespaces, item.GetName())
	}
	return namespaces, nil
}

func apiResourceNames(ctx context.Context) ([]string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client := kubectl.New(cfg.Kubectl, runner.NewExec(logging.Discard()))
	catalog, err := client.APIResources(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Names(), nil
}

func manifestFolders() []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	folders, err := manifest.Discover(cfg.ManifestRoot, cfg.KustomizationFiles)
	if err != nil {
		return nil
	}
	return folders
}

// fixedCompletion completes a flag from a fixed set of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return filterPrefix(values, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// writeCompletion writes the completion script for shell.
func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
}

// filterPrefix filters strings by prefix (case-insensitive)
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return items
	}
	var filtered []string
	lowerPrefix := strings.ToLower(prefix)
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
